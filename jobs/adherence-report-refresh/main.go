package main

import (
	"context"
	"log/slog"
	"time"

	adherenceService "github.com/case-framework/study-adherence/pkg/adherence"
	adherenceTypes "github.com/case-framework/study-adherence/pkg/adherence/types"
	"github.com/case-framework/study-adherence/pkg/utils"
)

const DEFAULT_JOB_TIMEOUT = 2 * time.Hour

func main() {
	slog.Info("Starting adherence report refresh job")
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout())
	defer cancel()

	for _, instanceID := range conf.InstanceIDs {
		slog.Debug("Start refreshing adherence reports for instance", slog.String("instanceID", instanceID))

		studyKeys, err := studyKeysForInstance(instanceID)
		if err != nil {
			slog.Error("Failed to get studies", slog.String("error", err.Error()), slog.String("instanceID", instanceID))
			continue
		}

		for _, studyKey := range studyKeys {
			refreshStudy(ctx, instanceID, studyKey)
		}
	}

	slog.Info("Adherence report refresh job completed", slog.String("duration", time.Since(start).String()))
}

func jobTimeout() time.Duration {
	if conf.RefreshConfig.Timeout == "" {
		return DEFAULT_JOB_TIMEOUT
	}
	d, err := utils.ParseDurationString(conf.RefreshConfig.Timeout)
	if err != nil {
		slog.Warn("invalid job timeout, using default", slog.String("error", err.Error()))
		return DEFAULT_JOB_TIMEOUT
	}
	return d
}

func studyKeysForInstance(instanceID string) ([]string, error) {
	if len(conf.RefreshConfig.StudyKeys) > 0 {
		return conf.RefreshConfig.StudyKeys, nil
	}
	return adherenceDBService.GetStudyKeys(instanceID, adherenceTypes.STUDY_STATUS_ACTIVE)
}

func refreshStudy(ctx context.Context, instanceID string, studyKey string) {
	studyStart := time.Now()

	count, err := adherenceService.RefreshStudyAdherenceReports(ctx, instanceID, studyKey)
	if err != nil {
		slog.Error("Failed to refresh adherence reports", slog.String("error", err.Error()), slog.String("instanceID", instanceID), slog.String("studyKey", studyKey))
	}
	slog.Info("Adherence reports refreshed", slog.String("instanceID", instanceID), slog.String("studyKey", studyKey), slog.Int("count", count), slog.String("duration", time.Since(studyStart).String()))

	if !conf.RefreshConfig.RemoveStaleReports {
		return
	}
	removed, err := adherenceService.RemoveStaleReports(instanceID, studyKey)
	if err != nil {
		slog.Error("Failed to remove stale adherence reports", slog.String("error", err.Error()), slog.String("instanceID", instanceID), slog.String("studyKey", studyKey))
		return
	}
	slog.Info("Stale adherence reports removed", slog.String("instanceID", instanceID), slog.String("studyKey", studyKey), slog.Int64("count", removed))
}
