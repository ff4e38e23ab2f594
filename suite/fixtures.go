package suite

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/minio/minio-go/v7/pkg/s3utils"
	uuid "github.com/satori/go.uuid"
	"github.com/schollz/progressbar/v2"
	"github.com/spf13/afero"

	"github.com/lumafield/s3-api-suite/gateway"
)

// Object keys used by the procedures.
const (
	KeyObject       = "test-object.txt"
	KeyObjectCopy   = "test-object-copy.txt"
	KeyLockObject   = "test-object-lock-retention.txt"
	KeyObject1KB    = "test-object-1kb.bin"
	KeyObject5MB    = "test-object-5mb.bin"
	KeyObject50MB   = "test-object-50mb.bin"
	KeySSEObject    = "sse-object.txt"
	KeyMultipartObj = "multipart-object.txt"
)

const (
	textContent = "This is a test file for S3 automation testing."
	size1KB     = 1024
	size5MB     = 5 * gateway.MiB
	size50MB    = 50 * gateway.MiB
	chunkSize   = gateway.MiB
)

// Ticker is advanced while large fixture files are written.
type Ticker interface {
	Add(num int) error
}

type nilTicker struct{}

func (nilTicker) Add(int) error { return nil }

// Fixtures holds the values shared by the procedures of one run: bucket
// names, local files and the buckets created so far.
type Fixtures struct {
	RunID      string
	Bucket     string
	LockBucket string

	Dir      string
	TextFile string
	File1KB  string
	File5MB  string

	fs       afero.Fs
	progress io.Writer

	file50MB  string
	downloads int
	created   []string
	deleted   map[string]bool
	setUp     bool
	teardown  sync.Once
	tornDown  bool
}

// NewFixtures picks the bucket names of a run. Nothing is created until Setup.
func NewFixtures(fs afero.Fs, bucketPrefix string, progress io.Writer) *Fixtures {
	id := uuid.NewV4()
	suffix := hex.EncodeToString(id.Bytes()[:4])
	return &Fixtures{
		RunID:      id.String(),
		Bucket:     fmt.Sprintf("%s-%s", bucketPrefix, suffix),
		LockBucket: fmt.Sprintf("%s-lock-%s", bucketPrefix, suffix),
		fs:         fs,
		progress:   progress,
		deleted:    make(map[string]bool),
	}
}

// Setup validates the bucket names and writes the local test files.
func (fx *Fixtures) Setup() error {
	for _, b := range []string{fx.Bucket, fx.LockBucket} {
		if err := s3utils.CheckValidBucketNameStrict(b); err != nil {
			return fmt.Errorf("%w: bucket name %q: %v", ErrSetup, b, err)
		}
	}

	dir, err := afero.TempDir(fx.fs, "", "s3-api-suite-")
	if err != nil {
		return fmt.Errorf("%w: creating temp dir: %v", ErrSetup, err)
	}
	fx.Dir = dir
	fx.setUp = true

	fx.TextFile = filepath.Join(dir, "test-file.txt")
	if err := afero.WriteFile(fx.fs, fx.TextFile, []byte(textContent), 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrSetup, err)
	}
	fx.File1KB = filepath.Join(dir, "test-file-1kb.bin")
	if err := fx.writeFile(fx.File1KB, size1KB, 'X', nilTicker{}); err != nil {
		return fmt.Errorf("%w: %v", ErrSetup, err)
	}
	fx.File5MB = filepath.Join(dir, "test-file-5mb.bin")
	if err := fx.writeFile(fx.File5MB, size5MB, '0', nilTicker{}); err != nil {
		return fmt.Errorf("%w: %v", ErrSetup, err)
	}
	return nil
}

// File50MB returns the 50MB test file, writing it on first use.
func (fx *Fixtures) File50MB() (string, error) {
	if fx.file50MB != "" {
		return fx.file50MB, nil
	}
	if !fx.setUp || fx.tornDown {
		return "", fmt.Errorf("%w: fixtures are not set up", ErrSetup)
	}

	var ticker Ticker = nilTicker{}
	if fx.progress != nil {
		fmt.Fprintln(fx.progress, "Preparing 50MB test file")
		ticker = progressbar.NewOptions(size50MB/chunkSize,
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionSetWriter(fx.progress))
	}

	path := filepath.Join(fx.Dir, "test-file-50mb.bin")
	if err := fx.writeFile(path, size50MB, '0', ticker); err != nil {
		return "", err
	}
	if fx.progress != nil {
		fmt.Fprintln(fx.progress)
	}
	fx.file50MB = path
	return path, nil
}

// writeFile fills path with size copies of fill, one chunk per tick.
func (fx *Fixtures) writeFile(path string, size int64, fill byte, ticker Ticker) error {
	f, err := fx.fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	chunk := bytes.Repeat([]byte{fill}, int(min(size, chunkSize)))
	for remaining := size; remaining > 0; remaining -= int64(len(chunk)) {
		if remaining < int64(len(chunk)) {
			chunk = chunk[:remaining]
		}
		if _, err := f.Write(chunk); err != nil {
			_ = f.Close()
			return err
		}
		_ = ticker.Add(1)
	}
	return f.Close()
}

// DownloadPath returns a fresh path for a downloaded object. Downloads are
// removed with the rest of the fixture directory.
func (fx *Fixtures) DownloadPath(suffix string) string {
	fx.downloads++
	return filepath.Join(fx.Dir, fmt.Sprintf("download-%d%s", fx.downloads, suffix))
}

// FileSize returns the size of a local fixture or download.
func (fx *Fixtures) FileSize(path string) (int64, error) {
	info, err := fx.fs.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// RemoveFile deletes a download that is no longer needed.
func (fx *Fixtures) RemoveFile(path string) {
	_ = fx.fs.Remove(path)
}

// MarkCreated records that bucket exists remotely because of this run.
func (fx *Fixtures) MarkCreated(bucket string) {
	for _, b := range fx.created {
		if b == bucket {
			delete(fx.deleted, bucket)
			return
		}
	}
	fx.created = append(fx.created, bucket)
}

func (fx *Fixtures) MarkDeleted(bucket string) {
	fx.deleted[bucket] = true
}

// CreatedBuckets returns the buckets created by this run and not deleted
// since, in creation order.
func (fx *Fixtures) CreatedBuckets() []string {
	var live []string
	for _, b := range fx.created {
		if !fx.deleted[b] {
			live = append(live, b)
		}
	}
	return live
}

// Teardown removes the local files. It never touches remote objects and
// only acts on the first call.
func (fx *Fixtures) Teardown() error {
	var err error
	fx.teardown.Do(func() {
		fx.tornDown = true
		if !fx.setUp {
			return
		}
		var result *multierror.Error
		for _, path := range []string{fx.TextFile, fx.File1KB, fx.File5MB, fx.file50MB} {
			if path == "" {
				continue
			}
			if rmErr := fx.fs.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				result = multierror.Append(result, rmErr)
			}
		}
		if rmErr := fx.fs.RemoveAll(fx.Dir); rmErr != nil {
			result = multierror.Append(result, rmErr)
		}
		err = result.ErrorOrNil()
	})
	return err
}
