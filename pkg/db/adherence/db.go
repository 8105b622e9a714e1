package adherence

import (
	"context"
	"log/slog"
	"time"

	"github.com/case-framework/study-adherence/pkg/db"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_STUDY_INFOS              = "study-infos"
	COLLECTION_NAME_SUFFIX_ADHERENCE_INPUTS  = "adherenceInputs"
	COLLECTION_NAME_SUFFIX_ADHERENCE_REPORTS = "studyAdherenceReports"
)

const (
	DEFAULT_ADHERENCE_REPORT_PAGE_SIZE = 50
	MAX_ADHERENCE_REPORT_PAGE_SIZE     = 500
)

type AdherenceDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
	InstanceIDs     []string
}

func NewAdherenceDBService(configs db.DBConfig) (*AdherenceDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)
	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer conCancel()
	if err = dbClient.Ping(ctx, nil); err != nil {
		return nil, err
	}

	adherenceDBSc := &AdherenceDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
		InstanceIDs:     configs.InstanceIDs,
	}

	if configs.RunIndexCreation {
		if err := adherenceDBSc.ensureIndexes(); err != nil {
			slog.Error("Error ensuring indexes for adherence DB", slog.String("error", err.Error()))
		}
	}

	return adherenceDBSc, nil
}

// Studies live in the study DB of the instance; adherence collections are stored next to them.
func (dbService *AdherenceDBService) getDBName(instanceID string) string {
	return dbService.DBNamePrefix + instanceID + "_studyDB"
}

func (dbService *AdherenceDBService) collectionStudyInfos(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_STUDY_INFOS)
}

func (dbService *AdherenceDBService) collectionAdherenceInputs(instanceID string, studyKey string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(studyKey + "_" + COLLECTION_NAME_SUFFIX_ADHERENCE_INPUTS)
}

func (dbService *AdherenceDBService) collectionAdherenceReports(instanceID string, studyKey string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(studyKey + "_" + COLLECTION_NAME_SUFFIX_ADHERENCE_REPORTS)
}

func (dbService *AdherenceDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *AdherenceDBService) ensureIndexes() error {
	slog.Debug("Ensuring indexes for adherence DB")
	for _, instanceID := range dbService.InstanceIDs {
		studyKeys, err := dbService.GetStudyKeys(instanceID, "")
		if err != nil {
			slog.Error("Error fetching studies", slog.String("instanceID", instanceID), slog.String("error", err.Error()))
			return err
		}

		for _, studyKey := range studyKeys {
			if err := dbService.CreateIndexForAdherenceInputsCollection(instanceID, studyKey); err != nil {
				slog.Error("Error creating index for adherence inputs", slog.String("studyKey", studyKey), slog.String("error", err.Error()))
			}

			if err := dbService.CreateIndexForAdherenceReportsCollection(instanceID, studyKey); err != nil {
				slog.Error("Error creating index for adherence reports", slog.String("studyKey", studyKey), slog.String("error", err.Error()))
			}
		}
	}
	return nil
}
