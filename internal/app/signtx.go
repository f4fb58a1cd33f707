package app

import (
	"context"
	"fmt"

	"github.com/anon-br/ergo-ledger-go/internal/apdu"
	"github.com/anon-br/ergo-ledger-go/internal/codec"
	"github.com/anon-br/ergo-ledger-go/internal/ergo"
	"github.com/anon-br/ergo-ledger-go/internal/packet"
)

// SIGN_TX sub-commands, carried in P1.
const (
	p1SignStart            byte = 0x01
	p1SignStartTx          byte = 0x0A
	p1SignTokenIDs         byte = 0x0B
	p1SignInputFrame       byte = 0x0C
	p1SignInputExtension   byte = 0x0D
	p1SignDataInputs       byte = 0x0E
	p1SignOutputStart      byte = 0x0F
	p1SignOutputTreeChunk  byte = 0x10
	p1SignOutputFeeTree    byte = 0x11
	p1SignOutputChangeTree byte = 0x12
	p1SignOutputTokens     byte = 0x13
	p1SignOutputRegisters  byte = 0x14
	p1SignConfirm          byte = 0x15
)

// P2 of a session-opening command selects auth-token presence. Every later
// command carries the session id in P2 instead.
const (
	p2NoAuthToken   byte = 0x01
	p2WithAuthToken byte = 0x02
)

const (
	// idsPerPacket bounds how many 32-byte identifiers ride in one
	// ADD_TOKEN_IDS or ADD_DATA_INPUTS packet.
	idsPerPacket = 7
	// tokenRefsPerPacket bounds (index, amount) pairs per packet.
	tokenRefsPerPacket = 7

	minSignPathLen   = 3
	minChangePathLen = 5
	// changeChainIndex is the BIP-44 chain element of a change path; the
	// device only accepts the external (0) or internal (1) chain there.
	changeChainIndex = 3
	maxChangeChain   = 1

	maxSectionEntries = 0xFFFF
	maxOutputTokens   = 0xFF
)

// SignTxRequest describes one signing run. The transaction is treated as
// immutable for the duration of the session.
type SignTxRequest struct {
	Network  ergo.Network
	SignPath ergo.Path
	Tx       *ergo.UnsignedTransaction
	// Change, when set, lets the driver substitute a derivation path for
	// any output paying back to the device's own address.
	Change *ergo.ChangeAddress
}

type tokenRef struct {
	index  uint32
	amount uint64
}

type plannedOutput struct {
	box    ergo.BoxCandidate
	tree   classifiedTree
	tokens []tokenRef
}

// signPlan is the fully validated, fully resolved shape of a session. It is
// built before any device traffic so that malformed input never reaches the
// wire.
type signPlan struct {
	network  ergo.Network
	signPath []byte
	table    *ergo.TokenTable
	outputs  []plannedOutput
}

// SignTransaction runs one signing session: it streams the transaction
// description to the device in the strict order its state machine expects
// and returns the raw signature bytes from the final step. Any device
// rejection or channel failure aborts the session immediately; the caller
// must restart from scratch, the device holds no recoverable state.
func (a *App) SignTransaction(ctx context.Context, req SignTxRequest) ([]byte, error) {
	plan, err := a.planSignTx(req)
	if err != nil {
		return nil, err
	}

	a.log.Info().
		Int("inputs", len(req.Tx.Inputs)).
		Int("data_inputs", len(req.Tx.DataInputs)).
		Int("outputs", len(req.Tx.Outputs)).
		Int("distinct_tokens", plan.table.Len()).
		Str("network", req.Network.String()).
		Msg("signing session start")

	session, err := a.startSigning(ctx, plan)
	if err != nil {
		return nil, err
	}
	if err := a.startTransaction(ctx, session, req.Tx, plan); err != nil {
		return nil, err
	}
	if err := a.addTokenIDs(ctx, session, plan.table); err != nil {
		return nil, err
	}
	if err := a.addInputs(ctx, session, req.Tx.Inputs); err != nil {
		return nil, err
	}
	if err := a.addDataInputs(ctx, session, req.Tx.DataInputs); err != nil {
		return nil, err
	}
	for i, out := range plan.outputs {
		if err := a.addOutput(ctx, session, i, out); err != nil {
			return nil, err
		}
	}
	sig, err := a.confirmAndSign(ctx, session)
	if err != nil {
		return nil, err
	}

	a.log.Info().Int("signature_bytes", len(sig)).Msg("signing session complete")
	return sig, nil
}

func (a *App) planSignTx(req SignTxRequest) (*signPlan, error) {
	if req.Tx == nil {
		return nil, ErrNoTransaction
	}
	if len(req.SignPath) < minSignPathLen {
		return nil, fmt.Errorf("%w: sign path has %d components, need %d", ErrPathTooShort, len(req.SignPath), minSignPathLen)
	}
	signPath, err := codec.SerializePath(req.SignPath)
	if err != nil {
		return nil, fmt.Errorf("app: sign path: %w", err)
	}
	tx := req.Tx
	if len(tx.Inputs) > maxSectionEntries || len(tx.DataInputs) > maxSectionEntries || len(tx.Outputs) > maxSectionEntries {
		return nil, ErrTooManyEntries
	}

	table := ergo.NewTokenTable(tx.Outputs)
	if table.Len() > maxSectionEntries {
		return nil, ErrTooManyEntries
	}

	outputs := make([]plannedOutput, 0, len(tx.Outputs))
	changeUsed := false
	for i, box := range tx.Outputs {
		if len(box.Tokens) > maxOutputTokens {
			return nil, fmt.Errorf("%w: output %d has %d tokens", ErrTooManyEntries, i, len(box.Tokens))
		}
		tree, err := classifyTree(box.ErgoTree, req.Network, req.Change)
		if err != nil {
			return nil, err
		}
		if tree.kind == treeChange {
			changeUsed = true
		}
		refs := make([]tokenRef, 0, len(box.Tokens))
		for _, tok := range box.Tokens {
			idx, err := table.Index(tok.ID)
			if err != nil {
				return nil, fmt.Errorf("app: output %d: %w", i, err)
			}
			refs = append(refs, tokenRef{index: uint32(idx), amount: tok.Amount})
		}
		outputs = append(outputs, plannedOutput{box: box, tree: tree, tokens: refs})
	}
	if changeUsed {
		if err := validateChangePath(req.Change.Path); err != nil {
			return nil, err
		}
	}

	return &signPlan{
		network:  req.Network,
		signPath: signPath,
		table:    table,
		outputs:  outputs,
	}, nil
}

func validateChangePath(path ergo.Path) error {
	if len(path) < minChangePathLen {
		return fmt.Errorf("%w: change path has %d components, need %d", ErrPathTooShort, len(path), minChangePathLen)
	}
	if _, err := codec.SerializePath(path); err != nil {
		return fmt.Errorf("app: change path: %w", err)
	}
	if chain := path[changeChainIndex]; chain > maxChangeChain {
		return fmt.Errorf("%w: chain component %d", ErrBadChangePath, chain)
	}
	return nil
}

// signSession scopes every command after the first to one device-side
// signing exchange.
type signSession struct {
	id byte
}

func (a *App) startSigning(ctx context.Context, plan *signPlan) (signSession, error) {
	p2 := p2NoAuthToken
	data := append([]byte{byte(plan.network)}, plan.signPath...)
	if a.authToken != 0 {
		p2 = p2WithAuthToken
		data = append(data, codec.Uint32(a.authToken)...)
	}
	resp, err := a.exchange(ctx, "start-signing", apdu.Command{
		Ins: apdu.InsSignTx, P1: p1SignStart, P2: p2, Data: data,
	})
	if err != nil {
		return signSession{}, err
	}
	if len(resp.Data) < 1 {
		return signSession{}, fmt.Errorf("%w: start-signing returned no session id", ErrBadDeviceReply)
	}
	return signSession{id: resp.Data[0]}, nil
}

func (a *App) startTransaction(ctx context.Context, s signSession, tx *ergo.UnsignedTransaction, plan *signPlan) error {
	data := make([]byte, 0, 8)
	data = append(data, codec.Uint16(uint16(len(tx.Inputs)))...)
	data = append(data, codec.Uint16(uint16(len(tx.DataInputs)))...)
	data = append(data, codec.Uint16(uint16(plan.table.Len()))...)
	data = append(data, codec.Uint16(uint16(len(tx.Outputs)))...)
	_, err := a.exchange(ctx, "start-transaction", apdu.Command{
		Ins: apdu.InsSignTx, P1: p1SignStartTx, P2: s.id, Data: data,
	})
	return err
}

func (a *App) addTokenIDs(ctx context.Context, s signSession, table *ergo.TokenTable) error {
	for _, pkt := range packet.ChunkItems(table.IDs(), idsPerPacket, encodeTokenID) {
		if _, err := a.exchange(ctx, "add-token-ids", apdu.Command{
			Ins: apdu.InsSignTx, P1: p1SignTokenIDs, P2: s.id, Data: pkt,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) addInputs(ctx context.Context, s signSession, inputs []ergo.AttestedBox) error {
	for _, input := range inputs {
		for _, frame := range input.Frames {
			if _, err := a.exchange(ctx, "add-input-frame", apdu.Command{
				Ins: apdu.InsSignTx, P1: p1SignInputFrame, P2: s.id, Data: frame,
			}); err != nil {
				return err
			}
		}
		if len(input.Extension) > 0 {
			if _, err := a.exchangeData(ctx, "add-input-extension", apdu.InsSignTx, p1SignInputExtension, s.id, input.Extension); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *App) addDataInputs(ctx context.Context, s signSession, ids []ergo.BoxID) error {
	for _, pkt := range packet.ChunkItems(ids, idsPerPacket, encodeBoxID) {
		if _, err := a.exchange(ctx, "add-data-inputs", apdu.Command{
			Ins: apdu.InsSignTx, P1: p1SignDataInputs, P2: s.id, Data: pkt,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) addOutput(ctx context.Context, s signSession, i int, out plannedOutput) error {
	step := fmt.Sprintf("add-output-start[%d]", i)
	data := make([]byte, 0, 21)
	data = append(data, codec.Uint64(out.box.Value)...)
	data = append(data, codec.Uint32(uint32(len(out.box.ErgoTree)))...)
	data = append(data, codec.Uint32(out.box.CreationHeight)...)
	data = append(data, codec.Uint8(uint8(len(out.tokens)))...)
	data = append(data, codec.Uint32(uint32(len(out.box.Registers)))...)
	if _, err := a.exchange(ctx, step, apdu.Command{
		Ins: apdu.InsSignTx, P1: p1SignOutputStart, P2: s.id, Data: data,
	}); err != nil {
		return err
	}

	switch out.tree.kind {
	case treeFee:
		// The device knows the miner-fee contract natively; no script
		// bytes go on the wire.
		if _, err := a.exchange(ctx, "add-output-fee-tree", apdu.Command{
			Ins: apdu.InsSignTx, P1: p1SignOutputFeeTree, P2: s.id,
		}); err != nil {
			return err
		}
	case treeChange:
		encoded, err := codec.SerializePath(out.tree.path)
		if err != nil {
			return fmt.Errorf("app: change path: %w", err)
		}
		if _, err := a.exchange(ctx, "add-output-change-tree", apdu.Command{
			Ins: apdu.InsSignTx, P1: p1SignOutputChangeTree, P2: s.id, Data: encoded,
		}); err != nil {
			return err
		}
	default:
		if _, err := a.exchangeData(ctx, "add-output-tree-chunk", apdu.InsSignTx, p1SignOutputTreeChunk, s.id, out.tree.script); err != nil {
			return err
		}
	}

	for _, pkt := range packet.ChunkItems(out.tokens, tokenRefsPerPacket, encodeTokenRef) {
		if _, err := a.exchange(ctx, "add-output-tokens", apdu.Command{
			Ins: apdu.InsSignTx, P1: p1SignOutputTokens, P2: s.id, Data: pkt,
		}); err != nil {
			return err
		}
	}

	if len(out.box.Registers) > 0 {
		if _, err := a.exchangeData(ctx, "add-output-registers", apdu.InsSignTx, p1SignOutputRegisters, s.id, out.box.Registers); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) confirmAndSign(ctx context.Context, s signSession) ([]byte, error) {
	resp, err := a.exchange(ctx, "confirm-and-sign", apdu.Command{
		Ins: apdu.InsSignTx, P1: p1SignConfirm, P2: s.id,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: confirm-and-sign returned no signature", ErrBadDeviceReply)
	}
	return append([]byte(nil), resp.Data...), nil
}

func encodeTokenID(id ergo.TokenID) []byte { return id[:] }

func encodeBoxID(id ergo.BoxID) []byte { return id[:] }

func encodeTokenRef(ref tokenRef) []byte {
	buf := make([]byte, 0, 12)
	buf = append(buf, codec.Uint32(ref.index)...)
	return append(buf, codec.Uint64(ref.amount)...)
}
