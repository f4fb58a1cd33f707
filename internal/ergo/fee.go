package ergo

import (
	"bytes"
	"encoding/hex"
)

// minerFeeTreeHex is the standard miner-fee contract: anyone can spend the
// box after a delay, intended for the mining reward collection script. The
// tree embeds no network-specific material, so a single constant covers
// both networks; the device recognizes it natively and never needs the
// script bytes on the wire.
const minerFeeTreeHex = "1005040004000e36100204a00b08cd0279be667ef9dcbbac55a0" +
	"6295ce870b07029bfcdb2dce28d959f2815b16f81798ea02d192a39a8cc7a70173007301" +
	"1001020402d19683030193a38cc7b2a57300000193c2b2a57301007473027303830108cd" +
	"eeac93b1a57304"

var minerFeeTree = mustHex(minerFeeTreeHex)

// MinerFeeTree returns a copy of the miner-fee contract bytes.
func MinerFeeTree() []byte {
	return append([]byte(nil), minerFeeTree...)
}

// IsMinerFeeTree reports whether tree is byte-identical to the miner-fee
// contract.
func IsMinerFeeTree(tree []byte) bool {
	return bytes.Equal(tree, minerFeeTree)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("ergo: bad built-in constant: " + err.Error())
	}
	return b
}
