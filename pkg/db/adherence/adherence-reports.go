package adherence

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adherenceTypes "github.com/case-framework/study-adherence/pkg/adherence/types"
)

var reportSortOnParticipantID = bson.D{
	primitive.E{Key: "participantID", Value: 1},
}

func (dbService *AdherenceDBService) CreateIndexForAdherenceReportsCollection(instanceID string, studyKey string) error {
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
				{Key: "createdAt", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "searchableLabels", Value: 1},
			},
		},
	}
	_, err := dbService.collectionAdherenceReports(instanceID, studyKey).Indexes().CreateMany(ctx, indexes)
	return err
}

// SaveStudyAdherenceReport replaces the cached report of the participant.
func (dbService *AdherenceDBService) SaveStudyAdherenceReport(instanceID string, studyKey string, report adherenceTypes.StoredStudyAdherenceReport) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"participantID": report.ParticipantID}
	report.ID = primitive.NilObjectID

	_, err := dbService.collectionAdherenceReports(instanceID, studyKey).ReplaceOne(
		ctx, filter, report, options.Replace().SetUpsert(true),
	)
	return err
}

func (dbService *AdherenceDBService) GetStudyAdherenceReport(instanceID string, studyKey string, participantID string) (report adherenceTypes.StoredStudyAdherenceReport, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"participantID": participantID}
	err = dbService.collectionAdherenceReports(instanceID, studyKey).FindOne(ctx, filter).Decode(&report)
	return report, err
}

func (dbService *AdherenceDBService) GetStudyAdherenceReportCount(instanceID string, studyKey string, filter bson.M) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionAdherenceReports(instanceID, studyKey).CountDocuments(ctx, filter)
}

// GetStudyAdherenceReports pages through the cached reports, optionally filtered by a
// case-insensitive fragment of the current week's row labels and by progression.
func (dbService *AdherenceDBService) GetStudyAdherenceReports(
	instanceID string,
	studyKey string,
	label string,
	progression string,
	page int64,
	limit int64,
) (reports []adherenceTypes.StoredStudyAdherenceReport, paginationInfo *PaginationInfos, err error) {
	filter := reportSearchFilter(label, progression)

	totalCount, err := dbService.GetStudyAdherenceReportCount(instanceID, studyKey, filter)
	if err != nil {
		return reports, nil, err
	}

	paginationInfo = prepPaginationInfos(totalCount, page, limit)
	skip := (paginationInfo.CurrentPage - 1) * paginationInfo.PageSize

	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find()
	opts.SetSort(reportSortOnParticipantID)
	opts.SetSkip(skip)
	opts.SetLimit(paginationInfo.PageSize)

	cursor, err := dbService.collectionAdherenceReports(instanceID, studyKey).Find(ctx, filter, opts)
	if err != nil {
		return reports, nil, err
	}
	defer cursor.Close(ctx)

	reports = []adherenceTypes.StoredStudyAdherenceReport{}
	err = cursor.All(ctx, &reports)
	return reports, paginationInfo, err
}

func (dbService *AdherenceDBService) DeleteStudyAdherenceReport(instanceID string, studyKey string, participantID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionAdherenceReports(instanceID, studyKey).DeleteOne(ctx, bson.M{"participantID": participantID})
	return err
}

// DeleteStudyAdherenceReportsCreatedBefore removes cached reports older than the unix timestamp.
func (dbService *AdherenceDBService) DeleteStudyAdherenceReportsCreatedBefore(instanceID string, studyKey string, createdBefore int64) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionAdherenceReports(instanceID, studyKey).DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": createdBefore}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
