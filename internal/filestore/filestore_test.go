package filestore_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/frahmantamala/hr-portal/internal/filestore"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	b, _ := io.ReadAll(params.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

var _ = Describe("NewKey", func() {
	It("should keep the extension of the original name", func() {
		key := filestore.NewKey("avatars", "me.PNG", "image/png")
		Expect(key).To(HavePrefix("avatars/"))
		Expect(key).To(HaveSuffix(".png"))
	})

	It("should derive an extension from the content type", func() {
		key := filestore.NewKey("avatars", "blob", "image/png")
		Expect(filepath.Ext(key)).To(Equal(".png"))
	})

	It("should generate distinct keys", func() {
		Expect(filestore.NewKey("a", "x.jpg", "")).NotTo(Equal(filestore.NewKey("a", "x.jpg", "")))
	})
})

var _ = Describe("LocalStore", func() {
	var (
		dir   string
		store *filestore.LocalStore
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "filestore")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		store, err = filestore.NewLocalStore(dir, "uploads/")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should write the file and return its public URL", func() {
		url, err := store.Put(context.Background(), "avatars/a.png", "image/png", strings.NewReader("png-bytes"))
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(Equal("/uploads/avatars/a.png"))

		data, err := os.ReadFile(filepath.Join(dir, "avatars", "a.png"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("png-bytes"))
	})

	It("should not escape the upload directory", func() {
		url, err := store.Put(context.Background(), "../../etc/x.png", "image/png", strings.NewReader("x"))
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(Equal("/uploads/etc/x.png"))
		Expect(filepath.Join(dir, "etc", "x.png")).To(BeAnExistingFile())
	})

	It("should stop when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.Put(ctx, "avatars/b.png", "image/png", strings.NewReader("x"))
		Expect(err).To(MatchError(context.Canceled))
		Expect(filepath.Join(dir, "avatars", "b.png")).NotTo(BeAnExistingFile())
	})
})

var _ = Describe("S3Store", func() {
	It("should put the object and build a URL from the public base", func() {
		client := &fakeS3{}
		store := filestore.NewS3Store(client, "avatars", "http://minio:9000/avatars/")

		url, err := store.Put(context.Background(), "2024/01/a.jpg", "image/jpeg", strings.NewReader("jpeg"))
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(Equal("http://minio:9000/avatars/2024/01/a.jpg"))
		Expect(*client.input.Bucket).To(Equal("avatars"))
		Expect(*client.input.ContentType).To(Equal("image/jpeg"))
		Expect(client.body).To(Equal("jpeg"))
	})

	It("should fall back to the AWS virtual host URL", func() {
		store := filestore.NewS3Store(&fakeS3{}, "bucket", "")
		url, err := store.Put(context.Background(), "k.png", "image/png", strings.NewReader(""))
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(Equal("https://bucket.s3.amazonaws.com/k.png"))
	})

	It("should wrap upload failures", func() {
		store := filestore.NewS3Store(&fakeS3{err: errors.New("denied")}, "bucket", "")
		_, err := store.Put(context.Background(), "k.png", "image/png", strings.NewReader(""))
		Expect(err).To(MatchError(ContainSubstring("denied")))
	})
})
