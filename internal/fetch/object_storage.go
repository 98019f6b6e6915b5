package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	loadObjectStorageConfigurationErrorTemplateConstant = "unable to load object storage configuration: %w"
)

// ObjectStorageConfiguration overrides the SDK defaults used to reach S3 compatible storage.
type ObjectStorageConfiguration struct {
	Region       string `mapstructure:"region" yaml:"region"`
	Endpoint     string `mapstructure:"endpoint" yaml:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style" yaml:"use_path_style"`
}

// NewObjectStorageClientFactory returns a factory that builds an S3 client from the default credential chain.
func NewObjectStorageClientFactory(configuration ObjectStorageConfiguration) ObjectStorageClientFactory {
	return func(executionContext context.Context) (ObjectStorageClient, error) {
		loadOptions := make([]func(*awsconfig.LoadOptions) error, 0, 1)
		region := strings.TrimSpace(configuration.Region)
		if len(region) > 0 {
			loadOptions = append(loadOptions, awsconfig.WithRegion(region))
		}

		sdkConfiguration, loadError := awsconfig.LoadDefaultConfig(executionContext, loadOptions...)
		if loadError != nil {
			return nil, fmt.Errorf(loadObjectStorageConfigurationErrorTemplateConstant, loadError)
		}

		endpoint := strings.TrimSpace(configuration.Endpoint)
		return s3.NewFromConfig(sdkConfiguration, func(options *s3.Options) {
			if len(endpoint) > 0 {
				options.BaseEndpoint = aws.String(endpoint)
			}
			options.UsePathStyle = configuration.UsePathStyle
		}), nil
	}
}
