package fetch

import (
	"context"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

type azureBlobStorageClient struct {
	client *azblob.Client
}

// NewAzureBlobStorageClient builds a blob client from an Azure Storage connection string.
func NewAzureBlobStorageClient(connectionString string) (BlobStorageClient, error) {
	client, clientError := azblob.NewClientFromConnectionString(connectionString, nil)
	if clientError != nil {
		return nil, clientError
	}
	return &azureBlobStorageClient{client: client}, nil
}

func (adapter *azureBlobStorageClient) DownloadBlob(executionContext context.Context, containerName string, blobName string) (io.ReadCloser, error) {
	response, downloadError := adapter.client.DownloadStream(executionContext, containerName, blobName, nil)
	if downloadError != nil {
		return nil, downloadError
	}
	return response.Body, nil
}
