// Package attachment stores supporting documents uploaded with leave requests
// and returns the metadata kept on the request.
package attachment

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"hr-leave-engine/internal/domain/errs"
	"hr-leave-engine/internal/domain/leave"
	"hr-leave-engine/pkg/id"
)

type Store interface {
	Save(ctx context.Context, employeeID string, fh *multipart.FileHeader) (leave.Attachment, error)
}

// DiskStore writes files under dir/<employeeId>/<id><ext> and serves them
// from baseURL with the same layout.
type DiskStore struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewDiskStore(dir, baseURL string, maxBytes int64) *DiskStore {
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}
}

// employee ids become a directory name
var reEmployeeID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

var allowed = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

func (s *DiskStore) Save(ctx context.Context, employeeID string, fh *multipart.FileHeader) (leave.Attachment, error) {
	if fh == nil {
		return leave.Attachment{}, errs.Field(errs.ValidationKind, "documents", "file is missing")
	}
	if !reEmployeeID.MatchString(employeeID) {
		return leave.Attachment{}, errs.Field(errs.ValidationKind, "employeeId", "employeeId contains invalid characters")
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return leave.Attachment{}, errs.Field(errs.ValidationKind, "documents",
			fmt.Sprintf("%s exceeds %d bytes", fh.Filename, s.maxBytes))
	}
	src, err := fh.Open()
	if err != nil {
		return leave.Attachment{}, err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(src, head)
	ctype := http.DetectContentType(head[:n])
	if i := strings.IndexByte(ctype, ';'); i > 0 {
		ctype = ctype[:i]
	}
	if !allowed[ctype] {
		return leave.Attachment{}, errs.Field(errs.ValidationKind, "documents",
			fmt.Sprintf("%s: unsupported file type %s", fh.Filename, ctype))
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return leave.Attachment{}, err
	}

	name := filepath.Base(fh.Filename)
	key := path.Join(employeeID, id.NewID32()+strings.ToLower(filepath.Ext(name)))
	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if rel, err := filepath.Rel(s.dir, dst); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return leave.Attachment{}, errs.Field(errs.ValidationKind, "employeeId", "employeeId contains invalid characters")
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return leave.Attachment{}, err
	}
	out, err := os.Create(dst)
	if err != nil {
		return leave.Attachment{}, err
	}
	written, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return leave.Attachment{}, err
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(dst)
		return leave.Attachment{}, err
	}

	u := s.baseURL + "/" + (&url.URL{Path: key}).EscapedPath()
	return leave.Attachment{Name: name, URL: u, ContentType: ctype, Size: written}, nil
}
