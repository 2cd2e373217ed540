package history

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"voicebridge/internal/kv"
	"voicebridge/internal/translation"
)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	blobs, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(logger, blobs), blobs
}

func rec(input, output string) translation.Record {
	return translation.Record{Input: input, Output: output, From: "English", To: "Spanish"}
}

func TestAppendPreservesChronologicalOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, rec("one", "uno")))
	require.NoError(t, store.Append(ctx, rec("two", "dos")))
	require.NoError(t, store.Append(ctx, rec("three", "tres")))

	records, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "one", records[0].Input)
	require.Equal(t, "two", records[1].Input)
	require.Equal(t, "three", records[2].Input)

	display, err := store.LoadDisplay(ctx)
	require.NoError(t, err)
	require.Equal(t, "three", display[0].Input)
	require.Equal(t, "two", display[1].Input)
	require.Equal(t, "one", display[2].Input)
}

func TestLoadAllNeverWritten(t *testing.T) {
	store, _ := newTestStore(t)

	records, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestLoadAllCorruptBlob(t *testing.T) {
	store, blobs := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, blobs.Set(ctx, StorageKey, []byte("{not json")))

	records, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestDeleteAtUsesDisplayIndex(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, rec("one", "uno")))
	require.NoError(t, store.Append(ctx, rec("two", "dos")))
	require.NoError(t, store.Append(ctx, rec("three", "tres")))

	// Display order is three, two, one. Display index 0 is the newest
	// record, which sits at the end of storage.
	require.NoError(t, store.DeleteAt(ctx, 0))

	records, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "one", records[0].Input)
	require.Equal(t, "two", records[1].Input)

	// Display index 1 now addresses the oldest record.
	require.NoError(t, store.DeleteAt(ctx, 1))

	records, err = store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "two", records[0].Input)
}

func TestDeleteAtOutOfRange(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.ErrorIs(t, store.DeleteAt(ctx, 0), ErrIndexOutOfRange)

	require.NoError(t, store.Append(ctx, rec("one", "uno")))
	require.ErrorIs(t, store.DeleteAt(ctx, 1), ErrIndexOutOfRange)
	require.ErrorIs(t, store.DeleteAt(ctx, -1), ErrIndexOutOfRange)
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, rec("one", "uno")))
	require.NoError(t, store.Clear(ctx))

	records, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestDisplayOrderLeavesInputAlone(t *testing.T) {
	in := []translation.Record{rec("a", "1"), rec("b", "2")}
	out := DisplayOrder(in)

	require.Equal(t, "b", out[0].Input)
	require.Equal(t, "a", out[1].Input)
	require.Equal(t, "a", in[0].Input)
}
