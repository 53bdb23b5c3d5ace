package history

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"talk-it/domain"
	"talk-it/errors"
)

func record(id string) domain.Message {
	return domain.Message{
		ID:        id,
		SenderID:  "u1",
		Content:   "content " + id,
		Kind:      domain.KindChat,
		CreatedAt: time.Now(),
	}
}

func TestStore_EvictsOldestBeyondCapacity(t *testing.T) {
	req := require.New(t)
	store, err := NewStore(DefaultCapacity)
	req.NoError(err)

	// When appending one record more than the capacity
	for i := 0; i < DefaultCapacity+1; i++ {
		store.Append(record(strconv.Itoa(i)))
	}

	// Then exactly one record was evicted, from the head
	all := store.All()
	req.Len(all, DefaultCapacity)
	req.Equal("1", all[0].ID)
	req.Equal(strconv.Itoa(DefaultCapacity), all[len(all)-1].ID)
}

func TestStore_Recent(t *testing.T) {
	req := require.New(t)
	store, err := NewStore(10)
	req.NoError(err)
	for i := 0; i < 5; i++ {
		store.Append(record(strconv.Itoa(i)))
	}

	// Last n records come back in chronological order
	recent := store.Recent(3)
	req.Len(recent, 3)
	req.Equal("2", recent[0].ID)
	req.Equal("4", recent[2].ID)

	// Asking for more than stored returns everything
	req.Len(store.Recent(50), 5)

	// Non-positive n returns nothing
	req.Empty(store.Recent(0))
}

func TestStore_RecentIsACopy(t *testing.T) {
	req := require.New(t)
	store, err := NewStore(10)
	req.NoError(err)
	store.Append(record("a"))

	recent := store.Recent(1)
	recent[0].ID = "mutated"

	req.Equal("a", store.All()[0].ID)
}

func TestStore_Clear(t *testing.T) {
	req := require.New(t)
	store, err := NewStore(10)
	req.NoError(err)
	store.Append(record("a"))
	store.Append(record("b"))

	store.Clear()

	req.Equal(0, store.Len())
	req.Empty(store.All())
}

func TestNewStore_RejectsNonPositiveCapacity(t *testing.T) {
	req := require.New(t)

	_, err := NewStore(0)
	req.ErrorIs(err, errors.ErrNonPositiveBound)

	_, err = NewStore(-5)
	req.ErrorIs(err, errors.ErrNonPositiveBound)
}
