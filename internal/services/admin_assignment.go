package services

import (
	"context"

	"crowdfund/internal/apperr"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"
)

// nextAdmin picks the admin after lastAdminID in roster order, wrapping at
// the end. With no prior campaign, or when lastAdminID has left the roster,
// the first admin is chosen.
func nextAdmin(roster []*models.Admin, lastAdminID string, hasPrevious bool) (string, error) {
	if len(roster) == 0 {
		return "", apperr.New(apperr.CodeNoAdminsAvailable, "no admins available to review campaigns")
	}
	if !hasPrevious {
		return roster[0].AdminID, nil
	}

	for i, admin := range roster {
		if admin.AdminID == lastAdminID {
			return roster[(i+1)%len(roster)].AdminID, nil
		}
	}
	return roster[0].AdminID, nil
}

// assignNextAdmin runs the round-robin policy against repo. Inside a campaign
// transaction the campaign counter lock keeps concurrent creations in line.
func assignNextAdmin(ctx context.Context, repo *repository.Repository) (string, error) {
	roster, err := repo.ListAdmins(ctx)
	if err != nil {
		return "", apperr.Persistence(err, "failed to load admin roster")
	}

	lastAdminID, hasPrevious, err := repo.LastAssignedAdmin(ctx)
	if err != nil {
		return "", apperr.Persistence(err, "failed to load last assigned admin")
	}

	return nextAdmin(roster, lastAdminID, hasPrevious)
}
