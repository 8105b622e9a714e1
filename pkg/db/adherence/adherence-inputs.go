package adherence

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adherenceTypes "github.com/case-framework/study-adherence/pkg/adherence/types"
)

func (dbService *AdherenceDBService) CreateIndexForAdherenceInputsCollection(instanceID string, studyKey string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "participantID", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "modifiedAt", Value: 1},
			},
		},
	}
	_, err := dbService.collectionAdherenceInputs(instanceID, studyKey).Indexes().CreateMany(ctx, indexes)
	return err
}

// SaveAdherenceInputs replaces (or creates) the inputs document of the participant.
func (dbService *AdherenceDBService) SaveAdherenceInputs(instanceID string, studyKey string, inputs adherenceTypes.ParticipantAdherenceInputs) (adherenceTypes.ParticipantAdherenceInputs, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"participantID": inputs.ParticipantID}
	inputs.ID = primitive.NilObjectID
	inputs.ModifiedAt = time.Now().Unix()

	upsert := true
	rd := options.After
	opts := options.FindOneAndReplaceOptions{
		Upsert:         &upsert,
		ReturnDocument: &rd,
	}
	elem := adherenceTypes.ParticipantAdherenceInputs{}
	err := dbService.collectionAdherenceInputs(instanceID, studyKey).FindOneAndReplace(
		ctx, filter, inputs, &opts,
	).Decode(&elem)
	return elem, err
}

func (dbService *AdherenceDBService) GetAdherenceInputs(instanceID string, studyKey string, participantID string) (inputs adherenceTypes.ParticipantAdherenceInputs, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"participantID": participantID}
	err = dbService.collectionAdherenceInputs(instanceID, studyKey).FindOne(ctx, filter).Decode(&inputs)
	return inputs, err
}

func (dbService *AdherenceDBService) DeleteAdherenceInputs(instanceID string, studyKey string, participantID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionAdherenceInputs(instanceID, studyKey).DeleteOne(ctx, bson.M{"participantID": participantID})
	return err
}

// FindAndExecuteOnAdherenceInputs iterates over the inputs matching the filter. A failing
// callback is logged and does not stop the iteration.
func (dbService *AdherenceDBService) FindAndExecuteOnAdherenceInputs(
	ctx context.Context,
	instanceID string, studyKey string,
	filter bson.M,
	fn func(instanceID string, studyKey string, inputs adherenceTypes.ParticipantAdherenceInputs) error,
) error {
	opts := options.Find().SetSort(bson.D{{Key: "participantID", Value: 1}})
	if dbService.noCursorTimeout {
		opts.SetNoCursorTimeout(true)
	}

	cursor, err := dbService.collectionAdherenceInputs(instanceID, studyKey).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var inputs adherenceTypes.ParticipantAdherenceInputs
		if err = cursor.Decode(&inputs); err != nil {
			slog.Error("Error while decoding adherence inputs", slog.String("error", err.Error()))
			continue
		}

		if err = fn(instanceID, studyKey, inputs); err != nil {
			slog.Error("Error executing function on adherence inputs", slog.String("participantID", inputs.ParticipantID), slog.String("error", err.Error()))
			continue
		}
	}
	return cursor.Err()
}
