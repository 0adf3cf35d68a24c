package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/rationkiosk/internal/ordering/entity"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/storage"
)

func TestArchive(t *testing.T) {
	t.Run("missing receipt is not an error", func(t *testing.T) {
		// Arrange
		a := New(storage.NewMemory(), instrument.NewNoop())

		// Act
		rec, err := a.LoadReceipt(context.Background(), "ord-1", "en")

		// Assert
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("saved receipt is served per language", func(t *testing.T) {
		// Arrange
		store := storage.NewMemory()
		a := New(store, instrument.NewNoop())
		ctx := context.Background()
		in := entity.Receipt{OrderID: "ord-1", Lang: "ta", Body: []byte("பில்"), ContentType: "text/plain; charset=utf-8"}

		// Act
		require.NoError(t, a.SaveReceipt(ctx, in))
		got, err := a.LoadReceipt(ctx, "ord-1", "ta")
		other, otherErr := a.LoadReceipt(ctx, "ord-1", "en")

		// Assert
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, in, *got)
		assert.NoError(t, otherErr)
		assert.Nil(t, other)

		_, obj, err := store.Get(ctx, "receipts/ord-1/ta")
		require.NoError(t, err)
		assert.Equal(t, "ord-1", obj.Metadata[metaOrderID])
	})
}
