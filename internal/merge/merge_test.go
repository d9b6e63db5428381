package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfeed-engine/internal/domain"
)

func job(id, title string) domain.Job {
	return domain.Job{ID: id, Source: domain.SourceGoogle, Title: title, IsActive: true}
}

func TestClassify_EmptyPrior(t *testing.T) {
	drafts := []domain.Job{job("a", "A"), job("b", "B")}
	res := Classify(drafts, nil)

	assert.Len(t, res.ToInsert, 2)
	assert.Empty(t, res.ToUpdate)
	assert.Empty(t, res.Unchanged)
	assert.Equal(t, 2, res.Total())
}

func TestClassify_UnchangedOnIdenticalFields(t *testing.T) {
	prior := map[string]domain.Job{"a": job("a", "A")}
	res := Classify([]domain.Job{job("a", "A")}, prior)

	assert.Empty(t, res.ToInsert)
	assert.Empty(t, res.ToUpdate)
	require.Len(t, res.Unchanged, 1)
}

func TestClassify_FieldChangeTriggersUpdate(t *testing.T) {
	prior := map[string]domain.Job{"a": job("a", "A")}

	changedDraft := job("a", "A")
	changedDraft.Location = "Berlin"

	res := Classify([]domain.Job{changedDraft}, prior)
	require.Len(t, res.ToUpdate, 1)
	assert.Equal(t, "Berlin", res.ToUpdate[0].Location)
}

func TestClassify_EmptyVsPopulated(t *testing.T) {
	stored := job("a", "A")
	stored.Description = "kept"
	prior := map[string]domain.Job{"a": stored}

	// Draft lost the description: prior was populated, so it counts as
	// changed.
	bare := job("a", "A")
	res := Classify([]domain.Job{bare}, prior)
	assert.Len(t, res.ToUpdate, 1)

	// Both empty: equal.
	prior["a"] = bare
	res = Classify([]domain.Job{job("a", "A")}, prior)
	assert.Len(t, res.Unchanged, 1)
}

func TestClassify_PointerFields(t *testing.T) {
	yes := true
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	stored := job("a", "A")
	prior := map[string]domain.Job{"a": stored}

	remote := job("a", "A")
	remote.IsRemote = &yes
	assert.Len(t, Classify([]domain.Job{remote}, prior).ToUpdate, 1)

	posted := job("a", "A")
	posted.PostedAt = &now
	assert.Len(t, Classify([]domain.Job{posted}, prior).ToUpdate, 1)

	// Same pointed-to values in distinct allocations compare equal.
	yes2 := true
	now2 := now
	stored.IsRemote = &yes
	stored.PostedAt = &now
	prior["a"] = stored
	same := job("a", "A")
	same.IsRemote = &yes2
	same.PostedAt = &now2
	assert.Len(t, Classify([]domain.Job{same}, prior).Unchanged, 1)
}

func TestClassify_PreservesEmissionOrder(t *testing.T) {
	prior := map[string]domain.Job{"b": job("b", "old")}
	res := Classify([]domain.Job{job("c", "C"), job("b", "new"), job("a", "A")}, prior)

	require.Len(t, res.ToInsert, 2)
	assert.Equal(t, "c", res.ToInsert[0].ID)
	assert.Equal(t, "a", res.ToInsert[1].ID)
	require.Len(t, res.ToUpdate, 1)
	assert.Equal(t, "b", res.ToUpdate[0].ID)
}
