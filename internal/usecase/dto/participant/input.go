package participantdto

type RegisterInput struct {
	Address        string
	SponsorAddress string
}

type ListParticipantsInput struct {
	Page  int
	Limit int
}

type GetReferralsInput struct {
	Address string
	// Level zero lists every level
	Level int
}
