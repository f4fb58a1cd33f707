package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anon-br/ergo-ledger-go/internal/codec"
	"github.com/anon-br/ergo-ledger-go/internal/ergo"
)

// txFile is the JSON shape accepted by the sign subcommand. All byte
// fields are hex strings.
type txFile struct {
	Inputs     []txInput  `json:"inputs"`
	DataInputs []string   `json:"data_inputs"`
	Outputs    []txOutput `json:"outputs"`
	Change     *txChange  `json:"change"`
}

type txInput struct {
	TxID           string    `json:"tx_id"`
	Index          uint16    `json:"index"`
	Value          uint64    `json:"value"`
	ErgoTree       string    `json:"ergo_tree"`
	CreationHeight uint32    `json:"creation_height"`
	Tokens         []txToken `json:"tokens"`
	Registers      string    `json:"registers"`
	Extension      string    `json:"extension"`
}

type txOutput struct {
	Value          uint64    `json:"value"`
	ErgoTree       string    `json:"ergo_tree"`
	CreationHeight uint32    `json:"creation_height"`
	Tokens         []txToken `json:"tokens"`
	Registers      string    `json:"registers"`
}

type txToken struct {
	ID     string `json:"id"`
	Amount uint64 `json:"amount"`
}

type txChange struct {
	Address string `json:"address"`
	Path    string `json:"path"`
}

// signJob is a parsed transaction file, ready for attestation and signing.
type signJob struct {
	boxes      []ergo.Box
	extensions [][]byte
	dataInputs []ergo.BoxID
	outputs    []ergo.BoxCandidate
	change     *ergo.ChangeAddress
}

func loadSignJob(path string) (*signJob, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transaction file: %w", err)
	}
	var file txFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse transaction file: %w", err)
	}

	job := &signJob{}
	for i, in := range file.Inputs {
		box := ergo.Box{Index: in.Index}
		box.Value = in.Value
		box.CreationHeight = in.CreationHeight
		if box.TxID, err = ergo.BoxIDFromHex(in.TxID); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if box.ErgoTree, err = codec.HexDecode(in.ErgoTree); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if box.Tokens, err = parseTokens(in.Tokens); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if box.Registers, err = optionalHex(in.Registers); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		ext, err := optionalHex(in.Extension)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		job.boxes = append(job.boxes, box)
		job.extensions = append(job.extensions, ext)
	}

	for i, id := range file.DataInputs {
		boxID, err := ergo.BoxIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("data input %d: %w", i, err)
		}
		job.dataInputs = append(job.dataInputs, boxID)
	}

	for i, out := range file.Outputs {
		box := ergo.BoxCandidate{Value: out.Value, CreationHeight: out.CreationHeight}
		if box.ErgoTree, err = codec.HexDecode(out.ErgoTree); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		if box.Tokens, err = parseTokens(out.Tokens); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		if box.Registers, err = optionalHex(out.Registers); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		job.outputs = append(job.outputs, box)
	}

	if file.Change != nil {
		path, err := ergo.ParsePath(file.Change.Path)
		if err != nil {
			return nil, fmt.Errorf("change path: %w", err)
		}
		job.change = &ergo.ChangeAddress{Address: file.Change.Address, Path: path}
	}
	return job, nil
}

func parseTokens(raw []txToken) ([]ergo.Token, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	tokens := make([]ergo.Token, 0, len(raw))
	for _, t := range raw {
		id, err := ergo.TokenIDFromHex(t.ID)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, ergo.Token{ID: id, Amount: t.Amount})
	}
	return tokens, nil
}

func optionalHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return codec.HexDecode(s)
}
