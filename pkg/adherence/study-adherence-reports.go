package adherence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/case-framework/study-adherence/pkg/adherence/adherenceengine"
	"github.com/case-framework/study-adherence/pkg/adherence/types"
	adherenceDB "github.com/case-framework/study-adherence/pkg/db/adherence"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetStudyAdherenceReportForProfile resolves the participant of the profile and returns its report.
func GetStudyAdherenceReportForProfile(instanceID string, studyKey string, profileID string, timeZone string) (*types.StudyAdherenceReport, error) {
	loc, err := ResolveTimeZone(timeZone)
	if err != nil {
		return nil, err
	}

	study, err := store.GetStudyInfo(instanceID, studyKey)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}

	participantID, err := participantIDForProfile(study, profileID)
	if err != nil {
		return nil, err
	}
	return getStudyAdherenceReport(instanceID, studyKey, participantID, loc)
}

// GetStudyAdherenceReport returns the report of the participant as seen from the client time
// zone. Cached reports are reused while they were created on the same local day.
func GetStudyAdherenceReport(instanceID string, studyKey string, participantID string, timeZone string) (*types.StudyAdherenceReport, error) {
	loc, err := ResolveTimeZone(timeZone)
	if err != nil {
		return nil, err
	}
	return getStudyAdherenceReport(instanceID, studyKey, participantID, loc)
}

func getStudyAdherenceReport(instanceID string, studyKey string, participantID string, loc *time.Location) (*types.StudyAdherenceReport, error) {
	at := now()

	if cacheReports {
		cached, err := store.GetStudyAdherenceReport(instanceID, studyKey, participantID)
		if err == nil && isCachedReportValid(cached, loc, at) {
			slog.Debug("using cached adherence report", slog.String("instanceID", instanceID), slog.String("studyKey", studyKey), slog.String("participantID", participantID))
			report := cached.Report
			localizeReport(&report, loc)
			return &report, nil
		} else if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			slog.Warn("could not read cached adherence report", slog.String("instanceID", instanceID), slog.String("studyKey", studyKey), slog.String("participantID", participantID), slog.String("error", err.Error()))
		}
	}

	inputs, err := store.GetAdherenceInputs(instanceID, studyKey, participantID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInputsNotFound
		}
		return nil, err
	}

	report, err := generateReport(studyKey, inputs, loc, at)
	if err != nil {
		return nil, err
	}

	if cacheReports {
		if err := store.SaveStudyAdherenceReport(instanceID, studyKey, storedReport(report, at)); err != nil {
			slog.Error("could not cache adherence report", slog.String("instanceID", instanceID), slog.String("studyKey", studyKey), slog.String("participantID", participantID), slog.String("error", err.Error()))
		}
	}
	return report, nil
}

// generateReport computes the report at millisecond precision, the precision reports are cached with.
func generateReport(studyKey string, inputs types.ParticipantAdherenceInputs, loc *time.Location, at time.Time) (*types.StudyAdherenceReport, error) {
	state := BuildAdherenceState(studyKey, inputs, loc, at.Truncate(time.Millisecond))
	generator := adherenceengine.NewStudyAdherenceReportGenerator(
		adherenceengine.StaticEventStreamReport{Report: inputs.EventStreams},
		nil,
		nil,
	)
	report, err := generator.Generate(state)
	if err != nil {
		return nil, fmt.Errorf("generating adherence report: %w", err)
	}
	return report, nil
}

func isCachedReportValid(cached types.StoredStudyAdherenceReport, loc *time.Location, at time.Time) bool {
	if cached.Report.ClientTimeZone != loc.String() {
		return false
	}
	createdAt := time.Unix(cached.CreatedAt, 0)
	if reportCacheTTL > 0 && at.Sub(createdAt) >= reportCacheTTL {
		return false
	}
	// today drives week scoring, so a report from another local day is outdated
	return types.LocalDateOf(createdAt, loc).Equal(types.LocalDateOf(at, loc))
}

// localizeReport restores the client zone of timestamps decoded from the database as UTC.
func localizeReport(report *types.StudyAdherenceReport, loc *time.Location) {
	report.CreatedOn = report.CreatedOn.In(loc)
	report.Timestamp = report.Timestamp.UTC()
	for eventID, ts := range report.EventTimestamps {
		report.EventTimestamps[eventID] = ts.UTC()
	}
}

func storedReport(report *types.StudyAdherenceReport, at time.Time) types.StoredStudyAdherenceReport {
	labels := []string{}
	if report.WeekReport != nil {
		labels = append(labels, report.WeekReport.SearchableLabels...)
	}
	return types.StoredStudyAdherenceReport{
		ParticipantID:    report.Participant.ParticipantID,
		CreatedAt:        at.Unix(),
		Progression:      report.Progression,
		AdherencePercent: report.AdherencePercent,
		SearchableLabels: labels,
		Report:           *report,
	}
}

// SaveAdherenceInputs stores the per-event-stream results of a participant and drops the
// cached report computed from the previous inputs.
func SaveAdherenceInputs(instanceID string, studyKey string, inputs types.ParticipantAdherenceInputs) (types.ParticipantAdherenceInputs, error) {
	if inputs.ParticipantID == "" {
		return inputs, fmt.Errorf("%w: participant ID is missing", ErrInvalidInputs)
	}
	if err := inputs.EventStreams.Validate(); err != nil {
		return inputs, fmt.Errorf("%w: %w", ErrInvalidInputs, err)
	}

	saved, err := store.SaveAdherenceInputs(instanceID, studyKey, inputs)
	if err != nil {
		return saved, err
	}

	if err := store.DeleteStudyAdherenceReport(instanceID, studyKey, inputs.ParticipantID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		slog.Error("could not remove cached adherence report", slog.String("instanceID", instanceID), slog.String("studyKey", studyKey), slog.String("participantID", inputs.ParticipantID), slog.String("error", err.Error()))
	}
	return saved, nil
}

// SearchStudyAdherenceReports pages through the cached reports of a study.
func SearchStudyAdherenceReports(instanceID string, studyKey string, label string, progression string, page int64, limit int64) ([]types.StoredStudyAdherenceReport, *adherenceDB.PaginationInfos, error) {
	return store.GetStudyAdherenceReports(instanceID, studyKey, label, progression, page, limit)
}

// RefreshStudyAdherenceReports recomputes and caches the report of every participant with
// stored inputs. A participant keeps the time zone of its previous report. Returns the number
// of reports written.
func RefreshStudyAdherenceReports(ctx context.Context, instanceID string, studyKey string) (int, error) {
	at := now()
	count := 0

	err := store.FindAndExecuteOnAdherenceInputs(ctx, instanceID, studyKey, bson.M{},
		func(instanceID string, studyKey string, inputs types.ParticipantAdherenceInputs) error {
			loc := defaultTimeZone
			if previous, err := store.GetStudyAdherenceReport(instanceID, studyKey, inputs.ParticipantID); err == nil {
				if l, err := ResolveTimeZone(previous.Report.ClientTimeZone); err == nil {
					loc = l
				}
			}

			report, err := generateReport(studyKey, inputs, loc, at)
			if err != nil {
				return err
			}
			if err := store.SaveStudyAdherenceReport(instanceID, studyKey, storedReport(report, at)); err != nil {
				return err
			}
			count++
			return nil
		},
	)
	return count, err
}

// RemoveStaleReports deletes cached reports older than the cache TTL. Without a TTL nothing is removed.
func RemoveStaleReports(instanceID string, studyKey string) (int64, error) {
	if reportCacheTTL <= 0 {
		return 0, nil
	}
	return store.DeleteStudyAdherenceReportsCreatedBefore(instanceID, studyKey, now().Add(-reportCacheTTL).Unix())
}
