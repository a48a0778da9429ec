// Package ens resolves ENS names against the on-chain registry through an
// Ethereum JSON-RPC endpoint. Resolution failure is an ordinary return value:
// the ENS scanner turns it into a sentinel report, never an HTTP error.
package ens

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// DefaultRegistry is the mainnet ENS registry contract.
const DefaultRegistry = "0x00000000000C2E074eC69A0dBFc9d4CcCc23882f"

// Resolver resolves an ENS name to an address. Implementations must not
// panic; every failure is an error return.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// contractCaller is the slice of ethclient.Client the resolver needs.
// Narrow so tests can fake the chain.
type contractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Client resolves names via eth_call against the registry and the name's
// configured resolver contract.
type Client struct {
	eth      contractCaller
	registry common.Address
}

// 4-byte selectors for resolver(bytes32) and addr(bytes32).
var (
	selectorResolver = crypto.Keccak256([]byte("resolver(bytes32)"))[:4] //nolint: gochecknoglobals
	selectorAddr     = crypto.Keccak256([]byte("addr(bytes32)"))[:4]    //nolint: gochecknoglobals
)

// New constructs a Client over an existing caller. registry falls back to
// DefaultRegistry when empty.
func New(eth contractCaller, registry string) *Client {
	if registry == "" {
		registry = DefaultRegistry
	}

	return &Client{eth: eth, registry: common.HexToAddress(registry)}
}

// Dial connects to an Ethereum JSON-RPC endpoint and returns a Client.
func Dial(rpcURL, registry string) (*Client, error) {
	ethc, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("could not dial ethereum rpc: %w", err)
	}

	return New(ethc, registry), nil
}

// Namehash implements the ENS namehash algorithm over an already-normalized
// (lowercased) name.
func Namehash(name string) common.Hash {
	node := make([]byte, 32)
	if name == "" {
		return common.BytesToHash(node)
	}

	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256(node, labelHash)
	}

	return common.BytesToHash(node)
}

// Resolve resolves name to its address record. The returned address is in
// EIP-55 checksum form.
func (c *Client) Resolve(ctx context.Context, name string) (string, error) {
	node := Namehash(strings.ToLower(strings.TrimSpace(name)))

	resolverAddr, err := c.callForAddress(ctx, c.registry, selectorResolver, node)
	if err != nil {
		return "", fmt.Errorf("could not look up resolver: %w", err)
	}
	if resolverAddr == (common.Address{}) {
		return "", fmt.Errorf("no resolver configured for %s", name)
	}

	addr, err := c.callForAddress(ctx, resolverAddr, selectorAddr, node)
	if err != nil {
		return "", fmt.Errorf("could not look up address record: %w", err)
	}
	if addr == (common.Address{}) {
		return "", fmt.Errorf("no address record for %s", name)
	}

	return addr.Hex(), nil
}

func (c *Client) callForAddress(ctx context.Context,
	to common.Address,
	selector []byte,
	node common.Hash) (common.Address, error) {
	data := make([]byte, 0, 36)
	data = append(data, selector...)
	data = append(data, node.Bytes()...)

	ret, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return common.Address{}, err //nolint: wrapcheck
	}
	if len(ret) < 32 || bytes.Equal(ret, make([]byte, len(ret))) {
		return common.Address{}, nil
	}

	return common.BytesToAddress(ret[12:32]), nil
}

// Ensure Client satisfies the Resolver interface at compile time.
var _ Resolver = (*Client)(nil)
