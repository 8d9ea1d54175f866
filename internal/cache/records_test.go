package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amanihealth/amani/internal/localstore/drivers/memory"
	"github.com/amanihealth/amani/pkg/healthsdk"
	"github.com/stretchr/testify/require"
)

type recordsResp struct {
	wait    chan struct{}
	records []healthsdk.MedicalRecord
	rec     healthsdk.MedicalRecord
	err     error
}

type fakeRecordsAPI struct {
	userID string

	mu      sync.Mutex
	lists   []recordsResp
	adds    []recordsResp
	updates []recordsResp
	deletes []recordsResp
}

func (f *fakeRecordsAPI) UserID() string { return f.userID }

func (f *fakeRecordsAPI) pop(queue *[]recordsResp, op string) recordsResp {
	f.mu.Lock()
	if len(*queue) == 0 {
		f.mu.Unlock()
		panic("fakeRecordsAPI: unexpected " + op + " call")
	}
	resp := (*queue)[0]
	*queue = (*queue)[1:]
	f.mu.Unlock()

	if resp.wait != nil {
		<-resp.wait
	}
	return resp
}

func (f *fakeRecordsAPI) ListMedicalRecords(ctx context.Context) ([]healthsdk.MedicalRecord, error) {
	resp := f.pop(&f.lists, "list")
	return resp.records, resp.err
}

func (f *fakeRecordsAPI) AddMedicalRecord(ctx context.Context, rec healthsdk.MedicalRecord) (healthsdk.MedicalRecord, error) {
	resp := f.pop(&f.adds, "add")
	return resp.rec, resp.err
}

func (f *fakeRecordsAPI) UpdateMedicalRecord(ctx context.Context, id string, patch healthsdk.RecordPatch) (healthsdk.MedicalRecord, error) {
	resp := f.pop(&f.updates, "update")
	return resp.rec, resp.err
}

func (f *fakeRecordsAPI) DeleteMedicalRecord(ctx context.Context, id string) error {
	resp := f.pop(&f.deletes, "delete")
	return resp.err
}

func someRecords() []healthsdk.MedicalRecord {
	date := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	return []healthsdk.MedicalRecord{
		{ID: "r1", Type: healthsdk.RecordTypeANCVisit, Date: date,
			Payload: healthsdk.ANCVisitDetails{GestationalWeeks: 16}},
		{ID: "r2", Type: healthsdk.RecordTypeVaccination, Date: date,
			Payload: healthsdk.VaccinationDetails{Vaccine: "TT1", Status: healthsdk.VaccineStatusAdministered}},
	}
}

func TestRecordListReplacesWholesale(t *testing.T) {
	t.Parallel()

	api := &fakeRecordsAPI{userID: "u1", lists: []recordsResp{
		{records: someRecords()},
		{records: someRecords()[:1]},
	}}
	c := NewRecordCache(api, memory.NewStore())
	ctx := context.Background()

	records, src, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, SourceFresh, src)
	require.Len(t, records, 2)

	// Second fetch replaces, never merges.
	records, _, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "r1", records[0].ID)
}

func TestRecordListPreservesServerOrder(t *testing.T) {
	t.Parallel()

	recs := someRecords()
	recs[0], recs[1] = recs[1], recs[0]
	api := &fakeRecordsAPI{userID: "u1", lists: []recordsResp{{records: recs}}}
	c := NewRecordCache(api, memory.NewStore())

	records, _, err := c.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "r2", records[0].ID)
	require.Equal(t, "r1", records[1].ID)
}

func TestRecordListStaleWhenOffline(t *testing.T) {
	t.Parallel()

	api := &fakeRecordsAPI{userID: "u1", lists: []recordsResp{
		{records: someRecords()},
		{err: errOffline},
	}}
	c := NewRecordCache(api, memory.NewStore())
	ctx := context.Background()

	_, _, err := c.List(ctx)
	require.NoError(t, err)

	records, src, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, SourceStale, src)
	require.Len(t, records, 2, "cached list returned unchanged")
}

func TestRecordListClearsOnAuthorizationFailure(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	api := &fakeRecordsAPI{userID: "u1", lists: []recordsResp{
		{records: someRecords()},
		{err: errRevoked},
	}}
	c := NewRecordCache(api, store)
	ctx := context.Background()

	_, _, err := c.List(ctx)
	require.NoError(t, err)

	records, _, err := c.List(ctx)
	require.True(t, healthsdk.IsAuthorization(err))
	require.Empty(t, records)

	_, _, ok := c.Cached(ctx)
	require.False(t, ok)
	_, err = store.Get(ctx, "session.cachedMedicalRecords")
	require.Error(t, err)
}

func TestRecordAddNoGhostOnFailure(t *testing.T) {
	t.Parallel()

	api := &fakeRecordsAPI{userID: "u1",
		lists: []recordsResp{{records: someRecords()}},
		adds:  []recordsResp{{err: errOffline}},
	}
	c := NewRecordCache(api, memory.NewStore())
	ctx := context.Background()

	_, _, err := c.List(ctx)
	require.NoError(t, err)

	draft, err := healthsdk.NewRecord(time.Now(), healthsdk.DoctorNoteDetails{Doctor: "Dr. A", Note: "n"})
	require.NoError(t, err)

	_, err = c.Add(ctx, draft)
	require.True(t, healthsdk.IsNetworkUnavailable(err))

	records, _, ok := c.Cached(ctx)
	require.True(t, ok)
	require.Len(t, records, 2, "failed create must not add a local placeholder")
}

func TestRecordAddAppendsCanonicalRecord(t *testing.T) {
	t.Parallel()

	canonical := healthsdk.MedicalRecord{
		ID:      "server-id",
		Type:    healthsdk.RecordTypeDoctorNote,
		Date:    time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
		Payload: healthsdk.DoctorNoteDetails{Doctor: "Dr. A", Note: "n"},
	}
	api := &fakeRecordsAPI{userID: "u1",
		lists: []recordsResp{{records: someRecords()}},
		adds:  []recordsResp{{rec: canonical}},
	}
	c := NewRecordCache(api, memory.NewStore())
	ctx := context.Background()

	_, _, err := c.List(ctx)
	require.NoError(t, err)

	draft := canonical
	draft.ID = "" // ids are server-assigned
	created, err := c.Add(ctx, draft)
	require.NoError(t, err)
	require.Equal(t, "server-id", created.ID)

	records, _, _ := c.Cached(ctx)
	require.Len(t, records, 3)
	require.Equal(t, "server-id", records[2].ID, "appended after existing entries")
}

func TestRecordAddBeforeAnyListSeedsCache(t *testing.T) {
	t.Parallel()

	canonical := healthsdk.MedicalRecord{
		ID:      "server-id",
		Type:    healthsdk.RecordTypeVaccination,
		Date:    time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
		Payload: healthsdk.VaccinationDetails{Vaccine: "TT1", Status: healthsdk.VaccineStatusAdministered},
	}
	store := memory.NewStore()
	api := &fakeRecordsAPI{userID: "u1",
		adds:  []recordsResp{{rec: canonical}},
		lists: []recordsResp{{err: errOffline}},
	}
	c := NewRecordCache(api, store)
	ctx := context.Background()

	draft := canonical
	draft.ID = ""
	_, err := c.Add(ctx, draft)
	require.NoError(t, err)

	// The confirmed write is the cache: an offline fetch degrades to it
	// instead of failing.
	records, src, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, SourceStale, src)
	require.Len(t, records, 1)
	require.Equal(t, "server-id", records[0].ID)

	// And it was persisted, so a restart still has it.
	restarted := NewRecordCache(&fakeRecordsAPI{userID: "u1"}, store)
	records, _, ok := restarted.Cached(ctx)
	require.True(t, ok)
	require.Len(t, records, 1)
}

func TestRecordUpdateAndDeleteMirrorOnSuccessOnly(t *testing.T) {
	t.Parallel()

	updated := someRecords()[0]
	updated.Payload = healthsdk.ANCVisitDetails{GestationalWeeks: 17}

	api := &fakeRecordsAPI{userID: "u1",
		lists:   []recordsResp{{records: someRecords()}},
		updates: []recordsResp{{err: errServer}, {rec: updated}},
		deletes: []recordsResp{{err: errOffline}, {}},
	}
	c := NewRecordCache(api, memory.NewStore())
	ctx := context.Background()

	_, _, err := c.List(ctx)
	require.NoError(t, err)

	patch := healthsdk.RecordPatch{Payload: healthsdk.ANCVisitDetails{GestationalWeeks: 17}}

	_, err = c.Update(ctx, "r1", patch)
	require.True(t, healthsdk.IsServer(err))
	records, _, _ := c.Cached(ctx)
	require.Equal(t, 16, records[0].Payload.(healthsdk.ANCVisitDetails).GestationalWeeks)

	_, err = c.Update(ctx, "r1", patch)
	require.NoError(t, err)
	records, _, _ = c.Cached(ctx)
	require.Equal(t, 17, records[0].Payload.(healthsdk.ANCVisitDetails).GestationalWeeks)

	err = c.Delete(ctx, "r2")
	require.True(t, healthsdk.IsNetworkUnavailable(err))
	records, _, _ = c.Cached(ctx)
	require.Len(t, records, 2)

	require.NoError(t, c.Delete(ctx, "r2"))
	records, _, _ = c.Cached(ctx)
	require.Len(t, records, 1)
	require.Equal(t, "r1", records[0].ID)
}

func TestRecordSlowListDoesNotOverwriteConfirmedWrite(t *testing.T) {
	t.Parallel()

	canonical := healthsdk.MedicalRecord{
		ID:      "r3",
		Type:    healthsdk.RecordTypeDoctorNote,
		Date:    time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
		Payload: healthsdk.DoctorNoteDetails{Doctor: "Dr. A", Note: "n"},
	}

	gate := make(chan struct{})
	api := &fakeRecordsAPI{userID: "u1",
		lists: []recordsResp{
			{records: someRecords()},
			{wait: gate, records: someRecords()}, // slow refetch without r3
		},
		adds: []recordsResp{{rec: canonical}},
	}
	c := NewRecordCache(api, memory.NewStore())
	ctx := context.Background()

	_, _, err := c.List(ctx)
	require.NoError(t, err)

	slowDone := make(chan struct{})
	go func() {
		defer close(slowDone)
		_, _, _ = c.List(ctx)
	}()
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return len(api.lists) == 0
	}, time.Second, time.Millisecond)

	draft := canonical
	draft.ID = ""
	_, err = c.Add(ctx, draft)
	require.NoError(t, err)

	close(gate)
	<-slowDone

	records, _, _ := c.Cached(ctx)
	require.Len(t, records, 3, "stale list response must not erase the confirmed create")
}

func TestRecordCacheForeignOwnerAndRestart(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	ctx := context.Background()

	api := &fakeRecordsAPI{userID: "u1", lists: []recordsResp{{records: someRecords()}}}
	_, _, err := NewRecordCache(api, store).List(ctx)
	require.NoError(t, err)

	// Same account after restart: persisted list is usable.
	restarted := NewRecordCache(&fakeRecordsAPI{userID: "u1"}, store)
	records, _, ok := restarted.Cached(ctx)
	require.True(t, ok)
	require.Len(t, records, 2)

	// Different account: list invisible and purged.
	foreign := NewRecordCache(&fakeRecordsAPI{userID: "u2"}, store)
	_, _, ok = foreign.Cached(ctx)
	require.False(t, ok)
}
