package services

import (
	"context"

	domain "deskprefs/internal/domain/preferences"
)

// Built-in decoder kinds.
const (
	KindEncoding      = "encoding"
	KindCompression   = "compression"
	KindSerialization = "serialization"
)

var builtInDecoders = []domain.BuiltInDecoder{
	{Name: "Base64", Kind: KindEncoding},
	{Name: "Hex", Kind: KindEncoding},
	{Name: "JSON", Kind: KindSerialization},
	{Name: "GZip", Kind: KindCompression},
	{Name: "Deflate", Kind: KindCompression},
	{Name: "ZStd", Kind: KindCompression},
	{Name: "Brotli", Kind: KindCompression},
	{Name: "LZ4", Kind: KindCompression},
	{Name: "Msgpack", Kind: KindSerialization},
	{Name: "PHP", Kind: KindSerialization},
	{Name: "Pickle", Kind: KindSerialization},
}

// BuiltInCatalog lists the decoders shipped with the application.
type BuiltInCatalog struct{}

func NewBuiltInCatalog() *BuiltInCatalog {
	return &BuiltInCatalog{}
}

func (c *BuiltInCatalog) ListBuiltIn(ctx context.Context) ([]domain.BuiltInDecoder, error) {
	return append([]domain.BuiltInDecoder{}, builtInDecoders...), nil
}
