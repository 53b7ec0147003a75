package service

import (
	"context"
	"fmt"

	"progress-bot/internal/logger"
	"progress-bot/internal/model"
)

// CompleteOAuth exchanges an install code and stores the workspace
// tokens, updating an existing team row on reinstall.
func (s *Service) CompleteOAuth(ctx context.Context, code string) error {
	resp, err := s.slack.OAuthAccess(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange oauth code: %w", err)
	}

	team := &model.Team{
		AccessToken:    resp.AccessToken,
		TeamID:         resp.TeamID,
		TeamName:       resp.TeamName,
		BotUserID:      resp.BotUserID,
		BotAccessToken: resp.BotAccessToken,
	}
	if err := s.store.UpsertTeam(ctx, team); err != nil {
		return err
	}
	logger.Info("workspace installed", "team", resp.TeamID, "name", resp.TeamName)
	return nil
}
