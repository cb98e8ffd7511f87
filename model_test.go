package zrxswap

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSignedOrderJSON(t *testing.T) {
	in := SignedOrder{Order: []byte{0xab, 0xcd}, Signature: []byte{0x1b, 0x03}}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"order":"0xabcd","signature":"0x1b03"}` {
		t.Fatalf("json = %s", data)
	}

	var out SignedOrder
	if err := json.Unmarshal([]byte(`{"order":"ABCD","signature":"0x1b03"}`), &out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Order, in.Order) || !bytes.Equal(out.Signature, in.Signature) {
		t.Fatalf("decoded %x / %x", out.Order, out.Signature)
	}
	if out.OrderHex() != "0xabcd" || out.SignatureHex() != "0x1b03" {
		t.Fatalf("hex = %s / %s", out.OrderHex(), out.SignatureHex())
	}

	if err := json.Unmarshal([]byte(`{"order":"zz","signature":""}`), &out); err == nil {
		t.Fatal("invalid hex accepted")
	}
}
