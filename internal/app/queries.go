package app

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/anon-br/ergo-ledger-go/internal/apdu"
	"github.com/anon-br/ergo-ledger-go/internal/codec"
	"github.com/anon-br/ergo-ledger-go/internal/ergo"
)

// DERIVE_ADDRESS display modes, carried in P1.
const (
	p1AddressReturn  byte = 0x01
	p1AddressDisplay byte = 0x02
)

// Version is the device application version.
type Version struct {
	Major byte
	Minor byte
	Patch byte
	Debug bool
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AppVersion queries the running application's version.
func (a *App) AppVersion(ctx context.Context) (Version, error) {
	resp, err := a.exchange(ctx, "get-app-version", apdu.Command{Ins: apdu.InsGetAppVersion})
	if err != nil {
		return Version{}, err
	}
	if len(resp.Data) < 3 {
		return Version{}, fmt.Errorf("%w: version reply has %d bytes", ErrBadDeviceReply, len(resp.Data))
	}
	v := Version{Major: resp.Data[0], Minor: resp.Data[1], Patch: resp.Data[2]}
	if len(resp.Data) >= 4 {
		v.Debug = resp.Data[3] != 0
	}
	return v, nil
}

// AppName queries the running application's name; anything other than the
// Ergo app means the user has the wrong app open.
func (a *App) AppName(ctx context.Context) (string, error) {
	resp, err := a.exchange(ctx, "get-app-name", apdu.Command{Ins: apdu.InsGetAppName})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("%w: empty app name", ErrBadDeviceReply)
	}
	return string(resp.Data), nil
}

// ExtendedPublicKey is a compressed secp256k1 key with its BIP-32 chain
// code.
type ExtendedPublicKey struct {
	PublicKey [33]byte
	ChainCode [32]byte
}

// GetExtendedPublicKey exports the public key at path. The device shows
// the path on-screen for confirmation unless an auth token is in effect.
func (a *App) GetExtendedPublicKey(ctx context.Context, path ergo.Path) (ExtendedPublicKey, error) {
	if len(path) < minSignPathLen {
		return ExtendedPublicKey{}, fmt.Errorf("%w: path has %d components, need %d", ErrPathTooShort, len(path), minSignPathLen)
	}
	data, err := codec.SerializePath(path)
	if err != nil {
		return ExtendedPublicKey{}, fmt.Errorf("app: pubkey path: %w", err)
	}
	p2 := p2NoAuthToken
	if a.authToken != 0 {
		p2 = p2WithAuthToken
		data = append(data, codec.Uint32(a.authToken)...)
	}
	resp, err := a.exchange(ctx, "get-extended-pubkey", apdu.Command{
		Ins: apdu.InsGetExtPubKey, P1: 0x01, P2: p2, Data: data,
	})
	if err != nil {
		return ExtendedPublicKey{}, err
	}
	if len(resp.Data) != 33+32 {
		return ExtendedPublicKey{}, fmt.Errorf("%w: pubkey reply has %d bytes", ErrBadDeviceReply, len(resp.Data))
	}
	if _, err := btcec.ParsePubKey(resp.Data[:33]); err != nil {
		return ExtendedPublicKey{}, fmt.Errorf("%w: %v", ErrBadDeviceReply, err)
	}
	var key ExtendedPublicKey
	copy(key.PublicKey[:], resp.Data[:33])
	copy(key.ChainCode[:], resp.Data[33:])
	return key, nil
}

// DeriveAddress asks the device to derive the P2PK address at path. With
// display set, the device shows the address on-screen and waits for the
// user to confirm it before replying.
func (a *App) DeriveAddress(ctx context.Context, network ergo.Network, path ergo.Path, display bool) (string, error) {
	if len(path) < minChangePathLen {
		return "", fmt.Errorf("%w: path has %d components, need %d", ErrPathTooShort, len(path), minChangePathLen)
	}
	encoded, err := codec.SerializePath(path)
	if err != nil {
		return "", fmt.Errorf("app: address path: %w", err)
	}
	p1 := p1AddressReturn
	if display {
		p1 = p1AddressDisplay
	}
	p2 := p2NoAuthToken
	data := append([]byte{byte(network)}, encoded...)
	if a.authToken != 0 {
		p2 = p2WithAuthToken
		data = append(data, codec.Uint32(a.authToken)...)
	}
	resp, err := a.exchange(ctx, "derive-address", apdu.Command{
		Ins: apdu.InsDeriveAddress, P1: p1, P2: p2, Data: data,
	})
	if err != nil {
		return "", err
	}
	addr, err := ergo.AddressFromBytes(resp.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadDeviceReply, err)
	}
	return addr, nil
}
