package adherence

import (
	"context"
	"errors"
	"time"

	"github.com/case-framework/study-adherence/pkg/adherence/types"
	adherenceDB "github.com/case-framework/study-adherence/pkg/db/adherence"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrInputsNotFound  = errors.New("adherence inputs not found")
	ErrStudyNotFound   = errors.New("study not found")
	ErrInvalidTimeZone = errors.New("invalid time zone")
	ErrInvalidInputs   = errors.New("invalid adherence inputs")
)

// AdherenceStore is the persistence the service needs. *adherenceDB.AdherenceDBService implements it.
type AdherenceStore interface {
	GetStudyInfo(instanceID string, studyKey string) (types.StudyInfo, error)
	GetStudyKeys(instanceID string, statusFilter string) ([]string, error)

	SaveAdherenceInputs(instanceID string, studyKey string, inputs types.ParticipantAdherenceInputs) (types.ParticipantAdherenceInputs, error)
	GetAdherenceInputs(instanceID string, studyKey string, participantID string) (types.ParticipantAdherenceInputs, error)
	FindAndExecuteOnAdherenceInputs(
		ctx context.Context,
		instanceID string, studyKey string,
		filter bson.M,
		fn func(instanceID string, studyKey string, inputs types.ParticipantAdherenceInputs) error,
	) error

	SaveStudyAdherenceReport(instanceID string, studyKey string, report types.StoredStudyAdherenceReport) error
	GetStudyAdherenceReport(instanceID string, studyKey string, participantID string) (types.StoredStudyAdherenceReport, error)
	GetStudyAdherenceReports(instanceID string, studyKey string, label string, progression string, page int64, limit int64) ([]types.StoredStudyAdherenceReport, *adherenceDB.PaginationInfos, error)
	DeleteStudyAdherenceReport(instanceID string, studyKey string, participantID string) error
	DeleteStudyAdherenceReportsCreatedBefore(instanceID string, studyKey string, createdBefore int64) (int64, error)
}

type Config struct {
	CacheReports    bool
	ReportCacheTTL  time.Duration
	DefaultTimeZone string
	GlobalSecret    string
}

var (
	store           AdherenceStore
	cacheReports    bool
	reportCacheTTL  time.Duration
	defaultTimeZone = time.UTC
	globalSecret    string

	// replaced in tests
	now = time.Now
)

func Init(
	adherenceStore AdherenceStore,
	conf Config,
) error {
	store = adherenceStore
	cacheReports = conf.CacheReports
	reportCacheTTL = conf.ReportCacheTTL
	globalSecret = conf.GlobalSecret

	defaultTimeZone = time.UTC
	if conf.DefaultTimeZone != "" {
		loc, err := time.LoadLocation(conf.DefaultTimeZone)
		if err != nil {
			return errors.Join(ErrInvalidTimeZone, err)
		}
		defaultTimeZone = loc
	}
	return nil
}
