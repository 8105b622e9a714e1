package adherence

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	adherenceTypes "github.com/case-framework/study-adherence/pkg/adherence/types"
)

var studyInfoProjection = bson.D{
	primitive.E{Key: "key", Value: 1},
	primitive.E{Key: "secretKey", Value: 1},
	primitive.E{Key: "status", Value: 1},
	primitive.E{Key: "configs.idMappingMethod", Value: 1},
}

// GetStudyInfo loads the fields needed to map profile IDs to participant IDs.
func (dbService *AdherenceDBService) GetStudyInfo(instanceID string, studyKey string) (study adherenceTypes.StudyInfo, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.FindOne().SetProjection(studyInfoProjection)
	err = dbService.collectionStudyInfos(instanceID).FindOne(ctx, bson.M{"key": studyKey}, opts).Decode(&study)
	return study, err
}

// GetStudyKeys returns the keys of all studies, optionally restricted to one status.
func (dbService *AdherenceDBService) GetStudyKeys(instanceID string, statusFilter string) ([]string, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{}
	if statusFilter != "" {
		filter["status"] = statusFilter
	}

	opts := options.Find().SetProjection(studyInfoProjection)
	cursor, err := dbService.collectionStudyInfos(instanceID).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var studies []adherenceTypes.StudyInfo
	if err = cursor.All(ctx, &studies); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(studies))
	for _, s := range studies {
		keys = append(keys, s.Key)
	}
	return keys, nil
}
