// merkle/tree.go
package merkle

import (
	"github.com/zukapustikova/ai-governance-transparency-ledger/crypto"
	ledger_errors "github.com/zukapustikova/ai-governance-transparency-ledger/errors"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
)

// Tree is a Merkle tree over an ordered list of hex leaf hashes.
// Odd-element rule: a layer with an odd length duplicates its last element,
// pairing it with itself.
type Tree struct {
	// layers[0] = leaves, layers[len-1] = [root]
	layers [][]string
}

// Build constructs the tree. Zero leaves yield an empty tree.
func Build(leaves []string) *Tree {
	if len(leaves) == 0 {
		return &Tree{layers: [][]string{{}}}
	}

	current := make([]string, len(leaves))
	copy(current, leaves)
	layers := [][]string{current}

	for len(current) > 1 {
		next := make([]string, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 < len(current) {
				next = append(next, crypto.CombineHashes(current[i], current[i+1]))
			} else {
				next = append(next, crypto.CombineHashes(current[i], current[i]))
			}
		}
		layers = append(layers, next)
		current = next
	}

	return &Tree{layers: layers}
}

// Root returns the root hash, or the empty string for an empty tree.
func (t *Tree) Root() string {
	top := t.layers[len(t.layers)-1]
	if len(top) == 0 {
		return ""
	}
	return top[0]
}

// LeafCount returns the number of leaves.
func (t *Tree) LeafCount() int {
	return len(t.layers[0])
}

// Prove returns the inclusion proof for the leaf at index: the sibling
// hashes from leaf to root, each flagged with the side the sibling is on.
// A single-leaf tree has an empty proof.
func (t *Tree) Prove(index int) ([]model.ProofStep, error) {
	leaves := t.layers[0]
	if index < 0 || index >= len(leaves) {
		return nil, ledger_errors.NotFoundf("leaf %d", index)
	}

	proof := []model.ProofStep{}
	current := index
	for _, layer := range t.layers[:len(t.layers)-1] {
		var sibling int
		position := "left"
		if current%2 == 0 {
			sibling = current + 1
			position = "right"
		} else {
			sibling = current - 1
		}

		siblingHash := layer[current] // odd layer end: duplicated self
		if sibling < len(layer) {
			siblingHash = layer[sibling]
		}

		proof = append(proof, model.ProofStep{SiblingHash: siblingHash, Position: position})
		current /= 2
	}

	return proof, nil
}

// Verify folds the proof over the leaf hash and compares against root.
func Verify(leafHash string, proof []model.ProofStep, root string) bool {
	current := leafHash
	for _, step := range proof {
		if step.Position == "left" {
			current = crypto.CombineHashes(step.SiblingHash, current)
		} else {
			current = crypto.CombineHashes(current, step.SiblingHash)
		}
	}
	return current == root
}
