package familyone

import (
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
)

// ParseDataURI decodes a data: URI into its payload and media type.
func ParseDataURI(uri string) ([]byte, string, error) {
	du, err := dataurl.DecodeString(uri)
	if err != nil {
		return nil, "", errors.Wrap(err, "invalid data uri")
	}
	return du.Data, du.ContentType(), nil
}

// ComposeDataURI encodes data as a base64 data: URI. The media type is sniffed when empty.
func ComposeDataURI(data []byte, mediaType string) string {
	if mediaType == "" {
		return dataurl.EncodeBytes(data)
	}
	return dataurl.New(data, mediaType).String()
}
