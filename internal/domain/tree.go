package domain

import "time"

type TreeNode struct {
	Address          string
	RegistrationDate *time.Time
	TotalReferrals   int64
	Level1Referrals  int64
	Level2Referrals  int64
	Children         []*TreeNode
}

type ReferralTree struct {
	*TreeNode
	UserExists bool
}

// EmptyTree is the reporting result for an address without a participant record.
func EmptyTree(address string) *ReferralTree {
	return &ReferralTree{
		TreeNode: &TreeNode{
			Address:  address,
			Children: []*TreeNode{},
		},
		UserExists: false,
	}
}
