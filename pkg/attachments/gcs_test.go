package attachments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGCSNames(t *testing.T) {
	g := &GCS{bucket: "nc-attachments", prefix: "attachments/", now: time.Now}
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../secret.txt", `dir\file.pdf`, "a/b.jpg"} {
		t.Run("should refuse to open "+name, func(t *testing.T) {
			_, err := g.Open(ctx, name)
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}

	t.Run("should refuse to store a name without a base", func(t *testing.T) {
		_, err := g.Put(ctx, "..", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("should fail without a bucket", func(t *testing.T) {
		_, err := NewGCS(ctx, "", "")
		assert.Error(t, err)
	})
}
