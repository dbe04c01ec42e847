package types

import "github.com/tos-network/gtos-lite/codec"

// Header carries a block's self-declared block number.
type Header struct {
	BlockNumber BlockNumber
}

func (h Header) EncodeCodec(e *codec.Encoder) { h.BlockNumber.EncodeCodec(e) }

func (h *Header) DecodeCodec(d *codec.Decoder) error { return h.BlockNumber.DecodeCodec(d) }

// Block is a header plus its ordered, semantically-significant extrinsics.
type Block struct {
	Header      Header
	Extrinsics  []UncheckedExtrinsic
}

func (b Block) EncodeCodec(e *codec.Encoder) {
	b.Header.EncodeCodec(e)
	e.PutUvarint(uint64(len(b.Extrinsics)))
	for _, ext := range b.Extrinsics {
		ext.EncodeCodec(e)
	}
}

func (b *Block) DecodeCodec(d *codec.Decoder) error {
	if err := b.Header.DecodeCodec(d); err != nil {
		return err
	}
	n, err := d.GetUvarint()
	if err != nil {
		return err
	}
	b.Extrinsics = make([]UncheckedExtrinsic, n)
	for i := range b.Extrinsics {
		if err := b.Extrinsics[i].DecodeCodec(d); err != nil {
			return err
		}
	}
	return nil
}
