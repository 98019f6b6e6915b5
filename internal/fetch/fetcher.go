package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/temirov/filediff/internal/location"
	pathutils "github.com/temirov/filediff/internal/utils/path"
)

const (
	objectStorageNotConfiguredMessageConstant = "object storage client not configured"
	blobStorageNotConfiguredMessageConstant   = "blob storage client not configured"
	invalidEncodingMessageConstant            = "content is not valid UTF-8 text"
	unsupportedLocationKindTemplateConstant   = "unsupported location kind %s"
	fetchErrorTemplateConstant                = "unable to fetch %s: %w"
	decodeErrorTemplateConstant               = "unable to decode %s: %w"
	fetchCompletedMessageConstant             = "location fetched"
	logFieldLocationConstant                  = "location"
	logFieldLocationKindConstant              = "location_kind"
	logFieldByteCountConstant                 = "byte_count"
	lineSeparatorConstant                     = "\n"
	carriageReturnLineSeparatorConstant       = "\r\n"
)

// ErrObjectStorageNotConfigured indicates an s3:// location without an object storage client.
var ErrObjectStorageNotConfigured = errors.New(objectStorageNotConfiguredMessageConstant)

// ErrBlobStorageNotConfigured indicates an azure:// location without a blob client factory.
var ErrBlobStorageNotConfigured = errors.New(blobStorageNotConfiguredMessageConstant)

// ErrInvalidEncoding indicates text content that cannot be decoded as UTF-8.
var ErrInvalidEncoding = errors.New(invalidEncodingMessageConstant)

// ObjectStorageClient is the subset of the S3 API used to download objects.
type ObjectStorageClient interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ ObjectStorageClient = (*s3.Client)(nil)

// ObjectStorageClientFactory builds the object storage client on first use.
type ObjectStorageClientFactory func(executionContext context.Context) (ObjectStorageClient, error)

// BlobStorageClient downloads blobs from a single storage account.
type BlobStorageClient interface {
	DownloadBlob(executionContext context.Context, containerName string, blobName string) (io.ReadCloser, error)
}

// BlobStorageClientFactory builds a blob client for the connection string embedded in a location.
type BlobStorageClientFactory func(connectionString string) (BlobStorageClient, error)

// FileReader reads the contents of a local path.
type FileReader func(path string) ([]byte, error)

// Fetcher loads location contents from the configured backends.
type Fetcher struct {
	objectStorageClientFactory ObjectStorageClientFactory
	blobStorageClientFactory   BlobStorageClientFactory
	fileReader                 FileReader
	pathResolver               *pathutils.LocalPathResolver
	logger                     *zap.Logger
	objectStorageClient        ObjectStorageClient
}

// NewFetcher constructs a Fetcher. A nil fileReader falls back to os.ReadFile and a nil logger to a no-op logger.
func NewFetcher(objectStorageClientFactory ObjectStorageClientFactory, blobStorageClientFactory BlobStorageClientFactory, fileReader FileReader, logger *zap.Logger) *Fetcher {
	if fileReader == nil {
		fileReader = os.ReadFile
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		objectStorageClientFactory: objectStorageClientFactory,
		blobStorageClientFactory:   blobStorageClientFactory,
		fileReader:                 fileReader,
		pathResolver:               pathutils.NewLocalPathResolver(nil),
		logger:                     logger,
	}
}

// Fetch returns the full contents of the location.
func (fetcher *Fetcher) Fetch(executionContext context.Context, target location.Location) ([]byte, error) {
	var content []byte
	var fetchError error

	switch target.Kind {
	case location.KindLocal:
		content, fetchError = fetcher.readLocal(target.Path)
	case location.KindObjectStorage:
		content, fetchError = fetcher.fetchObject(executionContext, target)
	case location.KindBlobStorage:
		content, fetchError = fetcher.fetchBlob(executionContext, target)
	default:
		fetchError = fmt.Errorf(unsupportedLocationKindTemplateConstant, target.Kind)
	}
	if fetchError != nil {
		return nil, fmt.Errorf(fetchErrorTemplateConstant, target.String(), fetchError)
	}

	fetcher.logger.Debug(
		fetchCompletedMessageConstant,
		zap.String(logFieldLocationConstant, target.String()),
		zap.Stringer(logFieldLocationKindConstant, target.Kind),
		zap.Int(logFieldByteCountConstant, len(content)),
	)

	return content, nil
}

// FetchLines returns the location contents decoded as UTF-8 and split into lines.
func (fetcher *Fetcher) FetchLines(executionContext context.Context, target location.Location) ([]string, error) {
	content, fetchError := fetcher.Fetch(executionContext, target)
	if fetchError != nil {
		return nil, fetchError
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf(decodeErrorTemplateConstant, target.String(), ErrInvalidEncoding)
	}
	return SplitLines(string(content)), nil
}

// SplitLines splits text on line breaks. A trailing line break does not produce an empty final line.
func SplitLines(text string) []string {
	if len(text) == 0 {
		return []string{}
	}
	normalizedText := strings.ReplaceAll(text, carriageReturnLineSeparatorConstant, lineSeparatorConstant)
	normalizedText = strings.TrimSuffix(normalizedText, lineSeparatorConstant)
	return strings.Split(normalizedText, lineSeparatorConstant)
}

func (fetcher *Fetcher) readLocal(localPath string) ([]byte, error) {
	resolvedPath, resolveError := fetcher.pathResolver.Resolve(localPath)
	if resolveError != nil {
		return nil, resolveError
	}
	return fetcher.fileReader(resolvedPath)
}

func (fetcher *Fetcher) fetchObject(executionContext context.Context, target location.Location) ([]byte, error) {
	client, clientError := fetcher.resolveObjectStorageClient(executionContext)
	if clientError != nil {
		return nil, clientError
	}

	output, getError := client.GetObject(executionContext, &s3.GetObjectInput{
		Bucket: aws.String(target.Bucket),
		Key:    aws.String(target.Key),
	})
	if getError != nil {
		return nil, getError
	}
	defer output.Body.Close()

	var buffer bytes.Buffer
	if _, copyError := io.Copy(&buffer, output.Body); copyError != nil {
		return nil, copyError
	}
	return buffer.Bytes(), nil
}

func (fetcher *Fetcher) resolveObjectStorageClient(executionContext context.Context) (ObjectStorageClient, error) {
	if fetcher.objectStorageClient != nil {
		return fetcher.objectStorageClient, nil
	}
	if fetcher.objectStorageClientFactory == nil {
		return nil, ErrObjectStorageNotConfigured
	}
	client, factoryError := fetcher.objectStorageClientFactory(executionContext)
	if factoryError != nil {
		return nil, factoryError
	}
	fetcher.objectStorageClient = client
	return client, nil
}

func (fetcher *Fetcher) fetchBlob(executionContext context.Context, target location.Location) ([]byte, error) {
	if fetcher.blobStorageClientFactory == nil {
		return nil, ErrBlobStorageNotConfigured
	}
	client, clientError := fetcher.blobStorageClientFactory(target.ConnectionString)
	if clientError != nil {
		return nil, clientError
	}

	body, downloadError := client.DownloadBlob(executionContext, target.Container, target.Blob)
	if downloadError != nil {
		return nil, downloadError
	}
	defer body.Close()

	return io.ReadAll(body)
}
