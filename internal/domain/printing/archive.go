package printing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Archive stores rendered documents
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// ArchiveKey returns the object key a document PDF is stored under:
// documents/<company>/<type>/<number>.pdf
func ArchiveKey(companyID uuid.UUID, doc DocType, number string) string {
	number = strings.NewReplacer("/", "-", "\\", "-", " ", "_").Replace(strings.TrimSpace(number))
	return fmt.Sprintf("documents/%s/%s/%s.pdf", companyID, doc, number)
}
