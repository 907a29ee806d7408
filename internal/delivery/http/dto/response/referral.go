package response

import (
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
)

type LevelResponse struct {
	Level     int                    `json:"level"`
	Count     int                    `json:"count"`
	Referrals []ReferralEdgeResponse `json:"referrals"`
}

type ReferralStatsResponse struct {
	Address          string          `json:"address"`
	UserExists       bool            `json:"userExists"`
	RegistrationDate *time.Time      `json:"registrationDate"`
	TotalReferrals   int64           `json:"totalReferrals"`
	TotalInvestment  float64         `json:"totalInvestment"`
	TotalEarnings    float64         `json:"totalEarnings"`
	TotalCommission  float64         `json:"totalCommission"`
	Levels           []LevelResponse `json:"levels"`
}

type LevelWiseResponse struct {
	Address     string          `json:"address"`
	UserExists  bool            `json:"userExists"`
	TotalLevels int             `json:"totalLevels"`
	Levels      []LevelResponse `json:"levels"`
}

type TreeNodeResponse struct {
	Address          string              `json:"address"`
	RegistrationDate *time.Time          `json:"registrationDate"`
	TotalReferrals   int64               `json:"totalReferrals"`
	Level1Referrals  int64               `json:"level1Referrals"`
	Level2Referrals  int64               `json:"level2Referrals"`
	Children         []*TreeNodeResponse `json:"children"`
	UserExists       *bool               `json:"userExists,omitempty"`
}

// FromTree converts the tree; only the root carries userExists.
func FromTree(tree *domain.ReferralTree) *TreeNodeResponse {
	root := fromNode(tree.TreeNode)
	exists := tree.UserExists
	root.UserExists = &exists
	return root
}

func fromNode(n *domain.TreeNode) *TreeNodeResponse {
	out := &TreeNodeResponse{
		Address:          n.Address,
		RegistrationDate: n.RegistrationDate,
		TotalReferrals:   n.TotalReferrals,
		Level1Referrals:  n.Level1Referrals,
		Level2Referrals:  n.Level2Referrals,
		Children:         make([]*TreeNodeResponse, 0, len(n.Children)),
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, fromNode(child))
	}
	return out
}
