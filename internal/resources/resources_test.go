package resources

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"reflect"
	"testing"
)

type fakeHost struct {
	names    []string
	uris     map[string]string
	handlers map[string]Handler
	reject   string
}

var errDuplicate = errors.New("duplicate resource")

func newFakeHost() *fakeHost {
	return &fakeHost{uris: map[string]string{}, handlers: map[string]Handler{}}
}

func (h *fakeHost) Resource(name, uriTemplate string, handler Handler) error {
	if name == h.reject {
		return errDuplicate
	}
	if _, ok := h.handlers[name]; ok {
		return errDuplicate
	}
	h.names = append(h.names, name)
	h.uris[name] = uriTemplate
	h.handlers[name] = handler
	return nil
}

func (h *fakeHost) read(t *testing.T, name string) Content {
	t.Helper()
	handler, ok := h.handlers[name]
	if !ok {
		t.Fatalf("resource %s not registered", name)
	}
	uri, err := url.Parse(h.uris[name])
	if err != nil {
		t.Fatalf("parse uri: %v", err)
	}
	result, err := handler(context.Background(), uri)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("expected one content item, got %d", len(result.Contents))
	}
	content := result.Contents[0]
	if content.URI != h.uris[name] {
		t.Fatalf("expected echoed uri %q, got %q", h.uris[name], content.URI)
	}
	if content.MimeType != MimeTypeJSON {
		t.Fatalf("expected mime type %q, got %q", MimeTypeJSON, content.MimeType)
	}
	return content
}

func TestRegisterAddsThreeResources(t *testing.T) {
	host := newFakeHost()
	got, err := Register(host, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got != host {
		t.Fatal("Register must return the host it was given")
	}

	wantNames := []string{GasReferenceName, BlockExplorersName, SupportedChainsName}
	if !reflect.DeepEqual(host.names, wantNames) {
		t.Fatalf("unexpected names: got %v want %v", host.names, wantNames)
	}
	wantURIs := map[string]string{
		"gas-reference":    "evm://docs/gas-reference",
		"block-explorers":  "evm://docs/block-explorers",
		"supported-chains": "evm://docs/supported-chains",
	}
	if !reflect.DeepEqual(host.uris, wantURIs) {
		t.Fatalf("unexpected uris: got %v want %v", host.uris, wantURIs)
	}
}

func TestGasReferenceDocument(t *testing.T) {
	host, err := Register(newFakeHost(), nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	content := host.read(t, GasReferenceName)

	var doc map[string]map[string]float64
	if err := json.Unmarshal([]byte(content.Text), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]map[string]float64{
		"ethereum":  {"low": 20, "average": 40, "high": 100, "veryHigh": 200},
		"base":      {"low": 0.05, "average": 0.1, "high": 0.3, "veryHigh": 0.5},
		"zetachain": {"low": 0.01, "average": 0.05, "high": 0.1, "veryHigh": 0.2},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Fatalf("unexpected gas reference: got %v want %v", doc, want)
	}
	if doc["ethereum"]["average"] != 40 {
		t.Fatalf("unexpected ethereum average %v", doc["ethereum"]["average"])
	}
}

func TestBlockExplorersDocumentText(t *testing.T) {
	host, err := Register(newFakeHost(), nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	content := host.read(t, BlockExplorersName)

	want := `{
  "ethereum": "https://etherscan.io",
  "base": "https://basescan.org",
  "zetachain": "https://explorer.zetachain.com"
}`
	if content.Text != want {
		t.Fatalf("unexpected text:\n%s\nwant:\n%s", content.Text, want)
	}
}

func TestSupportedChainsDocument(t *testing.T) {
	host, err := Register(newFakeHost(), nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	content := host.read(t, SupportedChainsName)

	var doc map[string]map[string]any
	if err := json.Unmarshal([]byte(content.Text), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"network":  "zetachain-mainnet",
		"name":     "ZetaChain",
		"symbol":   "ZETA",
		"decimals": float64(18),
	}
	if !reflect.DeepEqual(doc["zetachain"], want) {
		t.Fatalf("unexpected zetachain entry: got %v want %v", doc["zetachain"], want)
	}
	if len(doc) != 3 {
		t.Fatalf("expected three chains, got %d", len(doc))
	}
}

func TestHandlersAreStable(t *testing.T) {
	host, err := Register(newFakeHost(), nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	first := host.read(t, SupportedChainsName)
	second := host.read(t, SupportedChainsName)
	if first != second {
		t.Fatal("handler output changed between calls")
	}
}

func TestHandlerEchoesRequestURI(t *testing.T) {
	host, err := Register(newFakeHost(), nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	uri, _ := url.Parse("evm://docs/gas-reference?format=json")
	result, err := host.handlers[GasReferenceName](context.Background(), uri)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if result.Contents[0].URI != "evm://docs/gas-reference?format=json" {
		t.Fatalf("unexpected uri %q", result.Contents[0].URI)
	}
}

func TestRegisterPropagatesHostError(t *testing.T) {
	host := newFakeHost()
	host.reject = BlockExplorersName

	_, err := Register(host, nil)
	if !errors.Is(err, errDuplicate) {
		t.Fatalf("expected host error to propagate unchanged, got %v", err)
	}
	if err != errDuplicate {
		t.Fatalf("expected the exact host error, got %v", err)
	}
	if !reflect.DeepEqual(host.names, []string{GasReferenceName}) {
		t.Fatalf("unexpected registrations before failure: %v", host.names)
	}

	if _, err := Register(newFakeHost(), nil); err != nil {
		t.Fatalf("register on fresh host: %v", err)
	}
	twice := newFakeHost()
	if _, err := Register(twice, nil); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := Register(twice, nil); !errors.Is(err, errDuplicate) {
		t.Fatalf("expected duplicate registration error, got %v", err)
	}
}
