package orm

import (
	amino "github.com/tendermint/go-amino"
)

// AminoCodec serializes models with the amino binary encoding.
type AminoCodec struct {
	cdc *amino.Codec
}

var _ Codec = (*AminoCodec)(nil)

// NewAminoCodec returns a Codec using given amino codec. Any interface used
// by stored models must be registered with it.
func NewAminoCodec(cdc *amino.Codec) *AminoCodec {
	return &AminoCodec{cdc: cdc}
}

// Marshal implements Codec.
func (c *AminoCodec) Marshal(m Model) ([]byte, error) {
	return c.cdc.MarshalBinaryBare(m)
}

// Unmarshal implements Codec.
func (c *AminoCodec) Unmarshal(raw []byte, dest Model) error {
	return c.cdc.UnmarshalBinaryBare(raw, dest)
}
