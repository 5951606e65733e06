package resources

import (
	"context"
	"net/url"

	xerrors "OpenMCP-EVM/internal/errors"
)

// Resource names and URIs registered by Register.
const (
	Scheme = "evm"

	GasReferenceName    = "gas-reference"
	BlockExplorersName  = "block-explorers"
	SupportedChainsName = "supported-chains"

	GasReferenceURI    = "evm://docs/gas-reference"
	BlockExplorersURI  = "evm://docs/block-explorers"
	SupportedChainsURI = "evm://docs/supported-chains"
)

// MimeTypeJSON is the media type of every document Register serves.
const MimeTypeJSON = "application/json"

// Content is one item of a resource read.
type Content struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// ReadResult is what a Handler returns for a resolved request URI.
type ReadResult struct {
	Contents []Content `json:"contents"`
}

// Handler answers a read of a registered resource.
type Handler func(ctx context.Context, uri *url.URL) (*ReadResult, error)

// Registrar is the narrow capability Register needs from a host: adding a
// named, URI-addressed read handler.
type Registrar interface {
	Resource(name, uriTemplate string, handler Handler) error
}

type resource struct {
	name  string
	uri   string
	table Table
}

func (d *Documents) resources() []resource {
	return []resource{
		{name: GasReferenceName, uri: GasReferenceURI, table: d.GasReference},
		{name: BlockExplorersName, uri: BlockExplorersURI, table: d.BlockExplorers},
		{name: SupportedChainsName, uri: SupportedChainsURI, table: d.SupportedChains},
	}
}

// Register adds the gas-reference, block-explorers and supported-chains
// resources to host and returns host for chaining. A nil docs registers the
// default tables. Errors returned by host are passed through unchanged.
func Register[R Registrar](host R, docs *Documents) (R, error) {
	if docs == nil {
		docs = DefaultDocuments()
	}
	for _, res := range docs.resources() {
		text, err := res.table.Render()
		if err != nil {
			return host, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "render "+res.name)
		}
		if err := host.Resource(res.name, res.uri, textHandler(res.uri, text)); err != nil {
			return host, err
		}
	}
	return host, nil
}

func textHandler(fallbackURI, text string) Handler {
	return func(_ context.Context, uri *url.URL) (*ReadResult, error) {
		href := fallbackURI
		if uri != nil {
			href = uri.String()
		}
		return &ReadResult{Contents: []Content{{URI: href, MimeType: MimeTypeJSON, Text: text}}}, nil
	}
}
