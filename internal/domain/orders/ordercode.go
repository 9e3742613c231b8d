package orders

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
	hashids "github.com/speps/go-hashids/v2"
)

// CodeGenerator produces the gateway-visible order codes. A code packs
// the creation instant (epoch millis) and a random nonce through a
// salted hashid, so concurrent creations cannot collide and the code
// stays opaque to customers.
type CodeGenerator struct {
	h *hashids.HashID
}

func NewCodeGenerator(salt string) (*CodeGenerator, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = 16
	data.Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, err
	}
	return &CodeGenerator{h: h}, nil
}

func (g *CodeGenerator) Generate() (string, error) {
	u := uuid.New()
	nonce := int64(binary.BigEndian.Uint32(u[:4]))

	return g.h.EncodeInt64([]int64{time.Now().UnixMilli(), nonce})
}
