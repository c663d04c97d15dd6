// Package pb holds the protobuf wire types for proofs. The Go types
// are kept in sync with proof.proto by hand; the struct tags drive
// gogo/protobuf marshaling.
package pb

import (
	proto "github.com/gogo/protobuf/proto"
)

// InclusionProof is the wire form of an audit path: the sibling
// digests linking one leaf to the root of a tree of TreeSize leaves.
// LeafIndex counts from 1.
type InclusionProof struct {
	LeafIndex uint64   `protobuf:"varint,1,opt,name=leaf_index,json=leafIndex,proto3" json:"leaf_index,omitempty"`
	TreeSize  uint64   `protobuf:"varint,2,opt,name=tree_size,json=treeSize,proto3" json:"tree_size,omitempty"`
	Path      [][]byte `protobuf:"bytes,3,rep,name=path,proto3" json:"path,omitempty"`
}

func (m *InclusionProof) Reset()         { *m = InclusionProof{} }
func (m *InclusionProof) String() string { return proto.CompactTextString(m) }
func (*InclusionProof) ProtoMessage()    {}

func (m *InclusionProof) GetLeafIndex() uint64 {
	if m != nil {
		return m.LeafIndex
	}
	return 0
}

func (m *InclusionProof) GetTreeSize() uint64 {
	if m != nil {
		return m.TreeSize
	}
	return 0
}

func (m *InclusionProof) GetPath() [][]byte {
	if m != nil {
		return m.Path
	}
	return nil
}

// ConsistencyProof is the wire form of a consistency proof between the
// trees of FirstSize and SecondSize leaves.
type ConsistencyProof struct {
	FirstSize  uint64   `protobuf:"varint,1,opt,name=first_size,json=firstSize,proto3" json:"first_size,omitempty"`
	SecondSize uint64   `protobuf:"varint,2,opt,name=second_size,json=secondSize,proto3" json:"second_size,omitempty"`
	Path       [][]byte `protobuf:"bytes,3,rep,name=path,proto3" json:"path,omitempty"`
}

func (m *ConsistencyProof) Reset()         { *m = ConsistencyProof{} }
func (m *ConsistencyProof) String() string { return proto.CompactTextString(m) }
func (*ConsistencyProof) ProtoMessage()    {}

func (m *ConsistencyProof) GetFirstSize() uint64 {
	if m != nil {
		return m.FirstSize
	}
	return 0
}

func (m *ConsistencyProof) GetSecondSize() uint64 {
	if m != nil {
		return m.SecondSize
	}
	return 0
}

func (m *ConsistencyProof) GetPath() [][]byte {
	if m != nil {
		return m.Path
	}
	return nil
}

func init() {
	proto.RegisterType((*InclusionProof)(nil), "merkletree.pb.InclusionProof")
	proto.RegisterType((*ConsistencyProof)(nil), "merkletree.pb.ConsistencyProof")
}
