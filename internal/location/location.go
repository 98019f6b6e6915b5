package location

import (
	"errors"
	"fmt"
	"strings"
)

const (
	objectStorageSchemePrefixConstant      = "s3://"
	blobStorageSchemePrefixConstant        = "azure://"
	segmentSeparatorConstant               = "/"
	objectStorageSegmentCountConstant      = 2
	blobStorageSegmentCountConstant        = 3
	kindLocalStringConstant                = "local"
	kindObjectStorageStringConstant        = "s3"
	kindBlobStorageStringConstant          = "azure"
	locationEmptyErrorMessageConstant      = "location must not be empty"
	malformedLocationErrorMessageConstant  = "malformed location"
	objectStorageGrammarConstant           = "expected s3://<bucket>/<key>"
	blobStorageGrammarConstant             = "expected azure://<connection-string>/<container>/<blob>"
	malformedLocationErrorTemplateConstant = "%w %q: %s"
	objectStorageDisplayTemplateConstant   = "s3://%s/%s"
	blobStorageDisplayTemplateConstant     = "azure://%s/%s"
)

// ErrMalformedLocation indicates a cloud reference that does not match its scheme grammar.
var ErrMalformedLocation = errors.New(malformedLocationErrorMessageConstant)

// ErrEmptyLocation indicates that no location was supplied.
var ErrEmptyLocation = errors.New(locationEmptyErrorMessageConstant)

// Kind identifies the storage backend a location refers to.
type Kind int

// Supported location kinds.
const (
	KindLocal Kind = iota
	KindObjectStorage
	KindBlobStorage
)

// String returns the short backend name.
func (kind Kind) String() string {
	switch kind {
	case KindObjectStorage:
		return kindObjectStorageStringConstant
	case KindBlobStorage:
		return kindBlobStorageStringConstant
	default:
		return kindLocalStringConstant
	}
}

// Location is a parsed file reference. Only the fields matching Kind are populated.
type Location struct {
	Kind             Kind
	Path             string
	Bucket           string
	Key              string
	ConnectionString string
	Container        string
	Blob             string
}

// Parse converts a raw location string into a Location.
// Strings without a recognized scheme prefix are treated as local paths.
func Parse(rawLocation string) (Location, error) {
	if len(strings.TrimSpace(rawLocation)) == 0 {
		return Location{}, ErrEmptyLocation
	}

	switch {
	case strings.HasPrefix(rawLocation, objectStorageSchemePrefixConstant):
		return parseObjectStorage(rawLocation)
	case strings.HasPrefix(rawLocation, blobStorageSchemePrefixConstant):
		return parseBlobStorage(rawLocation)
	default:
		return Location{Kind: KindLocal, Path: rawLocation}, nil
	}
}

// String renders the location without exposing blob storage credentials.
func (location Location) String() string {
	switch location.Kind {
	case KindObjectStorage:
		return fmt.Sprintf(objectStorageDisplayTemplateConstant, location.Bucket, location.Key)
	case KindBlobStorage:
		return fmt.Sprintf(blobStorageDisplayTemplateConstant, location.Container, location.Blob)
	default:
		return location.Path
	}
}

func parseObjectStorage(rawLocation string) (Location, error) {
	remainder := strings.TrimPrefix(rawLocation, objectStorageSchemePrefixConstant)
	segments := strings.SplitN(remainder, segmentSeparatorConstant, objectStorageSegmentCountConstant)
	if len(segments) != objectStorageSegmentCountConstant || hasEmptySegment(segments) {
		return Location{}, fmt.Errorf(malformedLocationErrorTemplateConstant, ErrMalformedLocation, rawLocation, objectStorageGrammarConstant)
	}

	return Location{
		Kind:   KindObjectStorage,
		Bucket: segments[0],
		Key:    segments[1],
	}, nil
}

// The connection string is the first segment, so one that contains "/" is split incorrectly.
func parseBlobStorage(rawLocation string) (Location, error) {
	remainder := strings.TrimPrefix(rawLocation, blobStorageSchemePrefixConstant)
	segments := strings.SplitN(remainder, segmentSeparatorConstant, blobStorageSegmentCountConstant)
	if len(segments) != blobStorageSegmentCountConstant || hasEmptySegment(segments) {
		return Location{}, fmt.Errorf(malformedLocationErrorTemplateConstant, ErrMalformedLocation, redactedBlobReference(rawLocation), blobStorageGrammarConstant)
	}

	return Location{
		Kind:             KindBlobStorage,
		ConnectionString: segments[0],
		Container:        segments[1],
		Blob:             segments[2],
	}, nil
}

func hasEmptySegment(segments []string) bool {
	for _, segment := range segments {
		if len(strings.TrimSpace(segment)) == 0 {
			return true
		}
	}
	return false
}

func redactedBlobReference(rawLocation string) string {
	remainder := strings.TrimPrefix(rawLocation, blobStorageSchemePrefixConstant)
	separatorIndex := strings.Index(remainder, segmentSeparatorConstant)
	if separatorIndex < 0 {
		return blobStorageSchemePrefixConstant + "***"
	}
	return blobStorageSchemePrefixConstant + "***" + remainder[separatorIndex:]
}
