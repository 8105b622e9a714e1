package adherence

import (
	"context"
	"time"

	"github.com/case-framework/study-adherence/pkg/adherence/types"
	adherenceDB "github.com/case-framework/study-adherence/pkg/db/adherence"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// memoryStore keeps one study's documents in maps keyed by participant ID. Saved documents
// pass through BSON the way they would through the database.
type memoryStore struct {
	study        *types.StudyInfo
	inputs       map[string]types.ParticipantAdherenceInputs
	reports      map[string]types.StoredStudyAdherenceReport
	reportWrites int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		inputs:  map[string]types.ParticipantAdherenceInputs{},
		reports: map[string]types.StoredStudyAdherenceReport{},
	}
}

func (m *memoryStore) GetStudyInfo(_ string, studyKey string) (types.StudyInfo, error) {
	if m.study == nil || m.study.Key != studyKey {
		return types.StudyInfo{}, mongo.ErrNoDocuments
	}
	return *m.study, nil
}

func (m *memoryStore) GetStudyKeys(_ string, _ string) ([]string, error) {
	if m.study == nil {
		return []string{}, nil
	}
	return []string{m.study.Key}, nil
}

func (m *memoryStore) SaveAdherenceInputs(_ string, _ string, inputs types.ParticipantAdherenceInputs) (types.ParticipantAdherenceInputs, error) {
	stored, err := throughBSON(inputs)
	if err != nil {
		return inputs, err
	}
	m.inputs[inputs.ParticipantID] = stored
	return stored, nil
}

func (m *memoryStore) GetAdherenceInputs(_ string, _ string, participantID string) (types.ParticipantAdherenceInputs, error) {
	inputs, ok := m.inputs[participantID]
	if !ok {
		return inputs, mongo.ErrNoDocuments
	}
	return inputs, nil
}

func (m *memoryStore) FindAndExecuteOnAdherenceInputs(
	_ context.Context,
	instanceID string, studyKey string,
	_ bson.M,
	fn func(instanceID string, studyKey string, inputs types.ParticipantAdherenceInputs) error,
) error {
	for _, inputs := range m.inputs {
		_ = fn(instanceID, studyKey, inputs)
	}
	return nil
}

func (m *memoryStore) SaveStudyAdherenceReport(_ string, _ string, report types.StoredStudyAdherenceReport) error {
	stored, err := throughBSON(report)
	if err != nil {
		return err
	}
	m.reportWrites++
	m.reports[report.ParticipantID] = stored
	return nil
}

func (m *memoryStore) GetStudyAdherenceReport(_ string, _ string, participantID string) (types.StoredStudyAdherenceReport, error) {
	report, ok := m.reports[participantID]
	if !ok {
		return report, mongo.ErrNoDocuments
	}
	return report, nil
}

func (m *memoryStore) GetStudyAdherenceReports(_ string, _ string, _ string, _ string, _ int64, limit int64) ([]types.StoredStudyAdherenceReport, *adherenceDB.PaginationInfos, error) {
	reports := []types.StoredStudyAdherenceReport{}
	for _, r := range m.reports {
		reports = append(reports, r)
	}
	return reports, &adherenceDB.PaginationInfos{TotalCount: int64(len(reports)), CurrentPage: 1, TotalPages: 1, PageSize: limit}, nil
}

func (m *memoryStore) DeleteStudyAdherenceReport(_ string, _ string, participantID string) error {
	delete(m.reports, participantID)
	return nil
}

func (m *memoryStore) DeleteStudyAdherenceReportsCreatedBefore(_ string, _ string, createdBefore int64) (int64, error) {
	var count int64
	for id, r := range m.reports {
		if r.CreatedAt < createdBefore {
			delete(m.reports, id)
			count++
		}
	}
	return count, nil
}

func throughBSON[T any](v T) (T, error) {
	var decoded T
	data, err := bson.Marshal(v)
	if err != nil {
		return decoded, err
	}
	err = bson.Unmarshal(data, &decoded)
	return decoded, err
}

var testNow = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

func setupService(conf Config) *memoryStore {
	s := newMemoryStore()
	if err := Init(s, conf); err != nil {
		panic(err)
	}
	now = func() time.Time { return testNow }
	return s
}

// testInputs schedules one daily session starting on the enrollment date, 2024-01-01.
func testInputs(participantID string) types.ParticipantAdherenceInputs {
	enrollment := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	byDay := map[int][]types.ScheduledDay{}
	for offset := range 14 {
		date := types.NewLocalDate(2024, time.January, 1+offset)
		state := types.SESSION_STATE_COMPLETED
		if date.After(types.NewLocalDate(2024, time.January, 10)) {
			state = types.SESSION_STATE_NOT_YET_AVAILABLE
		}
		byDay[offset] = []types.ScheduledDay{{
			SessionGuid:  "daily",
			SessionName:  "Daily",
			StartEventID: "enrollment",
			StartDate:    date.Ptr(),
			TimeWindows: []types.TimeWindow{{
				SessionInstanceGuid: "instance",
				TimeWindowGuid:      "window",
				State:               state,
				EndDate:             date.Ptr(),
			}},
		}}
	}

	return types.ParticipantAdherenceInputs{
		ParticipantID:     participantID,
		StudyStartEventID: "enrollment",
		EventTimestamps:   map[string]int64{"enrollment": enrollment.Unix()},
		EventStreams: types.EventStreamReport{
			EarliestEventID: "enrollment",
			Streams: []types.EventStream{{
				StartEventID:   "enrollment",
				EventTimestamp: &enrollment,
				ByDayEntries:   byDay,
			}},
		},
	}
}
