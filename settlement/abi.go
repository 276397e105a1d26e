// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package settlement

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// SettlementABI is the part of the rollup settlement contract this package calls.
const SettlementABI = `[
  {
    "type": "function",
    "name": "submitProof",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "blockNumber", "type": "uint256"},
      {"name": "celestiaHeight", "type": "uint64"},
      {"name": "startIndex", "type": "uint64"},
      {"name": "dataLen", "type": "uint64"},
      {
        "name": "proofData",
        "type": "tuple",
        "components": [
          {"name": "stateRoot", "type": "bytes32"},
          {"name": "rollupBlockHash", "type": "bytes32"},
          {"name": "zkProof", "type": "bytes"},
          {
            "name": "sharesProof",
            "type": "tuple",
            "components": [{"name": "row_proofs", "type": "bytes[]"}]
          },
          {"name": "blobstreamNonce", "type": "uint256"},
          {
            "name": "tuple",
            "type": "tuple",
            "components": [
              {"name": "height", "type": "uint256"},
              {"name": "dataRoot", "type": "bytes32"}
            ]
          },
          {
            "name": "proof",
            "type": "tuple",
            "components": [
              {"name": "siblings", "type": "bytes32[]"},
              {"name": "path", "type": "bytes"}
            ]
          }
        ]
      }
    ],
    "outputs": []
  }
]`

const submitProofMethod = "submitProof"

var settlementABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(SettlementABI))
	if err != nil {
		panic(err)
	}
	settlementABI = parsed
}

// Field order matches the ABI components; decoding relies on it.

type SharesProof struct {
	RowProofs [][]byte `abi:"row_proofs"`
}

type DataRootTuple struct {
	Height   *big.Int `abi:"height"`
	DataRoot [32]byte `abi:"dataRoot"`
}

type BinaryMerkleProof struct {
	Siblings [][32]byte `abi:"siblings"`
	Path     []byte     `abi:"path"`
}

// ProofData is the proofData argument of submitProof.
type ProofData struct {
	StateRoot       [32]byte          `abi:"stateRoot"`
	RollupBlockHash [32]byte          `abi:"rollupBlockHash"`
	ZkProof         []byte            `abi:"zkProof"`
	SharesProof     SharesProof       `abi:"sharesProof"`
	BlobstreamNonce *big.Int          `abi:"blobstreamNonce"`
	Tuple           DataRootTuple     `abi:"tuple"`
	Proof           BinaryMerkleProof `abi:"proof"`
}

// SubmitRequest holds the arguments of one submitProof call.
type SubmitRequest struct {
	BlockNumber    *big.Int
	CelestiaHeight uint64
	StartIndex     uint64
	DataLen        uint64
	ProofData      ProofData
}

// EncodeSubmitProof returns the calldata of submitProof.
func EncodeSubmitProof(args *SubmitRequest) ([]byte, error) {
	if args.BlockNumber == nil {
		return nil, fmt.Errorf("%w: block number not set", ErrBuild)
	}
	data, err := settlementABI.Pack(submitProofMethod, args.BlockNumber, args.CelestiaHeight, args.StartIndex, args.DataLen, args.ProofData)
	if err != nil {
		return nil, fmt.Errorf("packing arguments for submitProof: %w", err)
	}
	return data, nil
}

// DecodeSubmitProof parses submitProof calldata back into its arguments.
func DecodeSubmitProof(calldata []byte) (*SubmitRequest, error) {
	method := settlementABI.Methods[submitProofMethod]
	if len(calldata) < 4 || string(calldata[:4]) != string(method.ID) {
		return nil, fmt.Errorf("calldata is not a %s call", submitProofMethod)
	}
	values, err := method.Inputs.Unpack(calldata[4:])
	if err != nil {
		return nil, err
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("expected 5 submitProof arguments, got %d", len(values))
	}
	args := &SubmitRequest{}
	var ok bool
	if args.BlockNumber, ok = values[0].(*big.Int); !ok {
		return nil, fmt.Errorf("unexpected blockNumber type %T", values[0])
	}
	if args.CelestiaHeight, ok = values[1].(uint64); !ok {
		return nil, fmt.Errorf("unexpected celestiaHeight type %T", values[1])
	}
	if args.StartIndex, ok = values[2].(uint64); !ok {
		return nil, fmt.Errorf("unexpected startIndex type %T", values[2])
	}
	if args.DataLen, ok = values[3].(uint64); !ok {
		return nil, fmt.Errorf("unexpected dataLen type %T", values[3])
	}
	proof := abi.ConvertType(values[4], new(ProofData)).(*ProofData)
	args.ProofData = *proof
	return args, nil
}
