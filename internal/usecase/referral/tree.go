package referral

import (
	"context"
	"errors"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	referraldto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/referral"
)

// BuildTree assembles the downline of input.Address from level-1 edges. A node
// at depth maxDepth is returned without children. An unknown root yields the
// empty tree instead of an error.
func (uc *DefaultReferralUsecase) BuildTree(ctx context.Context, input *referraldto.BuildTreeInput) (*domain.ReferralTree, error) {
	address := domain.NormalizeAddress(input.Address)
	if address == "" {
		return nil, domain.NewValidationError("address", "required")
	}
	maxDepth := uc.treeDepth(input.MaxDepth)

	root, err := uc.participantRepo.GetParticipant(ctx, address)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.EmptyTree(address), nil
		}
		return nil, err
	}

	visited := map[string]bool{root.Address: true}
	node, err := uc.buildNode(ctx, root, 0, maxDepth, visited)
	if err != nil {
		return nil, err
	}
	return &domain.ReferralTree{TreeNode: node, UserExists: true}, nil
}

func (uc *DefaultReferralUsecase) treeDepth(requested int) int {
	switch {
	case requested <= 0:
		return uc.defaultDepth
	case requested > uc.maxDepth:
		return uc.maxDepth
	}
	return requested
}

// buildNode recurses at most maxDepth times. visited keeps a participant from
// appearing twice when the edge set is malformed.
func (uc *DefaultReferralUsecase) buildNode(ctx context.Context, p *domain.Participant, depth, maxDepth int, visited map[string]bool) (*domain.TreeNode, error) {
	registered := p.RegistrationDate
	node := &domain.TreeNode{
		Address:          p.Address,
		RegistrationDate: &registered,
		TotalReferrals:   p.TotalReferrals,
		Level1Referrals:  p.LevelCount(1),
		Level2Referrals:  p.LevelCount(2),
		Children:         []*domain.TreeNode{},
	}
	if depth >= maxDepth {
		return node, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	edges, err := uc.referralRepo.ListEdges(ctx, domain.ReferralFilter{
		ReferrerAddress: p.Address,
		Level:           1,
	})
	if err != nil {
		return nil, err
	}

	for _, edge := range edges {
		if visited[edge.ReferredAddress] {
			continue
		}
		visited[edge.ReferredAddress] = true

		child, err := uc.participantRepo.GetParticipant(ctx, edge.ReferredAddress)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}

		childNode, err := uc.buildNode(ctx, child, depth+1, maxDepth, visited)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}
