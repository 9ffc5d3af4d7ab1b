package store

import (
	"path/filepath"
	"testing"

	"github.com/rondohq/rondo/pkg/schema"
	"github.com/rondohq/rondo/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() schema.Schema {
	return schema.Schema{
		Name:    "vm_cpu",
		Matcher: types.Present("vm_id"),
		Tiers: []schema.Tier{
			{Name: "raw", IntervalNs: 1_000_000_000, SlotCount: 100, MaxSeries: 8, Func: types.FuncNone},
			{Name: "5s", IntervalNs: 5_000_000_000, SlotCount: 40, MaxSeries: 8, Func: types.Average},
		},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(Config{DataDir: t.TempDir(), Schemas: []schema.Schema{testSchema()}})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRegisterRecordQueryRoundTrip(t *testing.T) {
	st := openTestStore(t)

	handle, err := st.Register("vm_cpu", []types.Label{{Key: "vm_id", Value: "vm-1"}})
	require.NoError(t, err)

	base := uint64(0)
	for i := uint64(0); i < 10; i++ {
		st.Record(handle, base+i*1_000_000_000, float64(i))
	}

	points, err := st.QueryRange("vm_cpu", "raw", handle.Column, 0, 10_000_000_000)
	require.NoError(t, err)
	require.Len(t, points, 10)
	assert.Equal(t, 0.0, points[0].Value)
	assert.Equal(t, 9.0, points[9].Value)
}

func TestRegisterIsIdempotentAcrossCalls(t *testing.T) {
	st := openTestStore(t)

	a, err := st.Register("vm_cpu", []types.Label{{Key: "vm_id", Value: "vm-1"}})
	require.NoError(t, err)
	b, err := st.Register("vm_cpu", []types.Label{{Key: "vm_id", Value: "vm-1"}})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRegisterRejectsLabelsTheMatcherDoesNotAdmit(t *testing.T) {
	st := openTestStore(t)
	_, err := st.Register("vm_cpu", []types.Label{{Key: "host", Value: "vm-1"}})
	assert.ErrorIs(t, err, ErrLabelsRejected)
}

func TestRegisterUnknownSchemaErrors(t *testing.T) {
	st := openTestStore(t)
	_, err := st.Register("does_not_exist", []types.Label{{Key: "vm_id", Value: "vm-1"}})
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestConsolidateProducesAveragedWindow(t *testing.T) {
	st := openTestStore(t)
	handle, err := st.Register("vm_cpu", []types.Label{{Key: "vm_id", Value: "vm-1"}})
	require.NoError(t, err)

	for i := uint64(0); i < 5; i++ {
		st.Record(handle, i*1_000_000_000, 10.0)
	}
	// One more sample at the 5s boundary pushes the source tier's
	// write_cursor timestamp to 5s, which is what makes window (0, 5s]
	// count as complete.
	st.Record(handle, 5_000_000_000, 20.0)

	require.NoError(t, st.Consolidate("vm_cpu"))

	// Window (0, 5s] covers source samples at t=1..5s: four 10.0s and
	// one 20.0, labeled by the window's end (t=5s). The t=0 sample
	// belongs to the prior (incomplete) window and isn't included.
	points, err := st.QueryRange("vm_cpu", "5s", handle.Column, 0, 5_000_000_000)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 12.0, points[0].Value)
	assert.Equal(t, uint64(5_000_000_000), points[0].Timestamp)
}

func TestDrainIsResumableAcrossCalls(t *testing.T) {
	st := openTestStore(t)
	handle, err := st.Register("vm_cpu", []types.Label{{Key: "vm_id", Value: "vm-1"}})
	require.NoError(t, err)

	st.Record(handle, 1_000_000_000, 1)
	st.Record(handle, 2_000_000_000, 2)

	first, err := st.Drain("vm_cpu", "raw", "dest-a")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Len(t, first[0].Points, 2)

	st.Record(handle, 3_000_000_000, 3)
	second, err := st.Drain("vm_cpu", "raw", "dest-a")
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Len(t, second[0].Points, 1)
	assert.Equal(t, 3.0, second[0].Points[0].Value)
}

func TestDrainUnknownTierErrors(t *testing.T) {
	st := openTestStore(t)
	_, err := st.Drain("vm_cpu", "does_not_exist", "dest-a")
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestCloseAndReopenPreservesSeriesAndData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	st, err := Open(Config{DataDir: dir, Schemas: []schema.Schema{testSchema()}})
	require.NoError(t, err)

	handle, err := st.Register("vm_cpu", []types.Label{{Key: "vm_id", Value: "vm-1"}})
	require.NoError(t, err)
	st.Record(handle, 1_000_000_000, 42.0)
	require.NoError(t, st.Close())

	reopened, err := Open(Config{DataDir: dir, Schemas: []schema.Schema{testSchema()}})
	require.NoError(t, err)
	defer reopened.Close()

	reHandle, err := reopened.Register("vm_cpu", []types.Label{{Key: "vm_id", Value: "vm-1"}})
	require.NoError(t, err)
	assert.Equal(t, handle, reHandle)

	points, err := reopened.QueryRange("vm_cpu", "raw", reHandle.Column, 0, 2_000_000_000)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 42.0, points[0].Value)
}

func TestOpenRejectsSchemaDeclarationMismatch(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(Config{DataDir: dir, Schemas: []schema.Schema{testSchema()}})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	changed := testSchema()
	changed.Tiers[0].MaxSeries = 99
	_, err = Open(Config{DataDir: dir, Schemas: []schema.Schema{changed}})
	assert.Error(t, err)
}

func TestSeriesFullPublishesEventAndErrors(t *testing.T) {
	small := testSchema()
	small.Tiers[0].MaxSeries = 1
	small.Tiers[1].MaxSeries = 1

	st, err := Open(Config{DataDir: t.TempDir(), Schemas: []schema.Schema{small}})
	require.NoError(t, err)
	defer st.Close()

	sub := st.Subscribe()
	defer st.Unsubscribe(sub)

	_, err = st.Register("vm_cpu", []types.Label{{Key: "vm_id", Value: "vm-1"}})
	require.NoError(t, err)

	_, err = st.Register("vm_cpu", []types.Label{{Key: "vm_id", Value: "vm-2"}})
	assert.Error(t, err)
}

func TestSchemaNamesAndSeriesCountImplementStatSource(t *testing.T) {
	st := openTestStore(t)
	_, err := st.Register("vm_cpu", []types.Label{{Key: "vm_id", Value: "vm-1"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"vm_cpu"}, st.SchemaNames())
	assert.Equal(t, 1, st.SeriesCount("vm_cpu"))
	assert.Equal(t, 8, st.SeriesCap("vm_cpu"))
}
