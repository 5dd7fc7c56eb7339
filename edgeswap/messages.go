package edgeswap

import (
	"encoding/binary"

	"github.com/katalvlaran/emswap/core"
)

// swapSideID packs a swap id and a side into one sortable key:
// ssid = sid<<1 | side. The ssid total order is the engine's evaluation
// order; every message targets an ssid strictly greater than its sender's.
type swapSideID uint64

// packSwapSide builds the composite key.
func packSwapSide(sid uint64, side uint8) swapSideID {
	return swapSideID(sid<<1 | uint64(side))
}

// swap extracts the swap id.
func (s swapSideID) swap() uint64 { return uint64(s) >> 1 }

// side extracts the side bit.
func (s swapSideID) side() uint8 { return uint8(s & 1) }

// loadRequest asks the dependency builder to deliver the edge at position eid
// to one swap side. Sorted by (eid, ssid) so one pass over E serves all
// requests and chains same-position requests in evaluation order.
type loadRequest struct {
	eid  int64
	ssid swapSideID
}

func loadRequestLess(a, b loadRequest) bool {
	if a.eid != b.eid {
		return a.eid < b.eid
	}

	return a.ssid < b.ssid
}

// depChainEdgeMsg carries one possible source configuration of a swap side.
type depChainEdgeMsg struct {
	ssid swapSideID
	edge core.Edge
}

func depChainEdgeLess(a, b depChainEdgeMsg) bool {
	if a.ssid != b.ssid {
		return a.ssid < b.ssid
	}

	return a.edge.Less(b.edge)
}

// depChainSuccMsg links a swap side to the next side reading the same edge
// position: when ssid settles, it forwards its configurations to successor.
type depChainSuccMsg struct {
	ssid      swapSideID
	successor swapSideID
}

func depChainSuccLess(a, b depChainSuccMsg) bool {
	if a.ssid != b.ssid {
		return a.ssid < b.ssid
	}

	return a.successor < b.successor
}

// existenceRequestMsg asks whether edge exists in the graph state reaching
// swap sid. source marks the swap's own source edges, which only need
// forwarding, not an answer.
//
// The comparator groups by edge ascending and, within an edge, by sid
// DESCENDING: the request processor walks each group from the latest swap
// back to the earliest while accumulating the successor chain. Do not change
// this order; an ascending walk would need two passes. At equal (edge, sid)
// a candidate request (source=false) precedes a pure forward (source=true),
// so the target observation dominates.
type existenceRequestMsg struct {
	edge   core.Edge
	sid    uint64
	source bool
}

func existenceRequestLess(a, b existenceRequestMsg) bool {
	if a.edge != b.edge {
		return a.edge.Less(b.edge)
	}
	if a.sid != b.sid {
		return a.sid > b.sid
	}

	return !a.source && b.source
}

// existenceInfoMsg tells swap sid that edge exists in the graph state
// reaching it. The invalid edge encodes a "missing" outcome on channels that
// must deliver a fixed message count.
type existenceInfoMsg struct {
	sid  uint64
	edge core.Edge
}

func existenceInfoLess(a, b existenceInfoMsg) bool {
	if a.sid != b.sid {
		return a.sid < b.sid
	}

	return a.edge.Less(b.edge)
}

// existenceSuccMsg tells swap sid that once it learns the fate of edge, it
// must forward the current multiset count of edge to swap successor as
// exactly budget messages: count of them carry the edge, the rest are
// invalid padding. The fixed budget is what lets the receiver wait on an
// exact placeholder count while the transported count stays dynamic.
type existenceSuccMsg struct {
	sid       uint64
	edge      core.Edge
	successor uint64
	budget    uint64
}

func existenceSuccLess(a, b existenceSuccMsg) bool {
	if a.sid != b.sid {
		return a.sid < b.sid
	}
	if a.edge != b.edge {
		return a.edge.Less(b.edge)
	}

	return a.successor < b.successor
}

// --- fixed-size codecs for the external sorters ---

func putEdge(dst []byte, e core.Edge) {
	binary.LittleEndian.PutUint64(dst, uint64(e.U))
	binary.LittleEndian.PutUint64(dst[8:], uint64(e.V))
}

func getEdge(src []byte) core.Edge {
	return core.Edge{
		U: core.Node(binary.LittleEndian.Uint64(src)),
		V: core.Node(binary.LittleEndian.Uint64(src[8:])),
	}
}

type loadRequestCodec struct{}

func (loadRequestCodec) Size() int { return 16 }
func (loadRequestCodec) Encode(dst []byte, v loadRequest) {
	binary.LittleEndian.PutUint64(dst, uint64(v.eid))
	binary.LittleEndian.PutUint64(dst[8:], uint64(v.ssid))
}
func (loadRequestCodec) Decode(src []byte) loadRequest {
	return loadRequest{
		eid:  int64(binary.LittleEndian.Uint64(src)),
		ssid: swapSideID(binary.LittleEndian.Uint64(src[8:])),
	}
}

type depChainEdgeCodec struct{}

func (depChainEdgeCodec) Size() int { return 24 }
func (depChainEdgeCodec) Encode(dst []byte, v depChainEdgeMsg) {
	binary.LittleEndian.PutUint64(dst, uint64(v.ssid))
	putEdge(dst[8:], v.edge)
}
func (depChainEdgeCodec) Decode(src []byte) depChainEdgeMsg {
	return depChainEdgeMsg{ssid: swapSideID(binary.LittleEndian.Uint64(src)), edge: getEdge(src[8:])}
}

type depChainSuccCodec struct{}

func (depChainSuccCodec) Size() int { return 16 }
func (depChainSuccCodec) Encode(dst []byte, v depChainSuccMsg) {
	binary.LittleEndian.PutUint64(dst, uint64(v.ssid))
	binary.LittleEndian.PutUint64(dst[8:], uint64(v.successor))
}
func (depChainSuccCodec) Decode(src []byte) depChainSuccMsg {
	return depChainSuccMsg{
		ssid:      swapSideID(binary.LittleEndian.Uint64(src)),
		successor: swapSideID(binary.LittleEndian.Uint64(src[8:])),
	}
}

type existenceRequestCodec struct{}

func (existenceRequestCodec) Size() int { return 25 }
func (existenceRequestCodec) Encode(dst []byte, v existenceRequestMsg) {
	putEdge(dst, v.edge)
	binary.LittleEndian.PutUint64(dst[16:], v.sid)
	dst[24] = 0
	if v.source {
		dst[24] = 1
	}
}
func (existenceRequestCodec) Decode(src []byte) existenceRequestMsg {
	return existenceRequestMsg{
		edge:   getEdge(src),
		sid:    binary.LittleEndian.Uint64(src[16:]),
		source: src[24] != 0,
	}
}

type existenceInfoCodec struct{}

func (existenceInfoCodec) Size() int { return 24 }
func (existenceInfoCodec) Encode(dst []byte, v existenceInfoMsg) {
	binary.LittleEndian.PutUint64(dst, v.sid)
	putEdge(dst[8:], v.edge)
}
func (existenceInfoCodec) Decode(src []byte) existenceInfoMsg {
	return existenceInfoMsg{sid: binary.LittleEndian.Uint64(src), edge: getEdge(src[8:])}
}

type existenceSuccCodec struct{}

func (existenceSuccCodec) Size() int { return 40 }
func (existenceSuccCodec) Encode(dst []byte, v existenceSuccMsg) {
	binary.LittleEndian.PutUint64(dst, v.sid)
	putEdge(dst[8:], v.edge)
	binary.LittleEndian.PutUint64(dst[24:], v.successor)
	binary.LittleEndian.PutUint64(dst[32:], v.budget)
}
func (existenceSuccCodec) Decode(src []byte) existenceSuccMsg {
	return existenceSuccMsg{
		sid:       binary.LittleEndian.Uint64(src),
		edge:      getEdge(src[8:]),
		successor: binary.LittleEndian.Uint64(src[24:]),
		budget:    binary.LittleEndian.Uint64(src[32:]),
	}
}

type edgeCodec struct{}

func (edgeCodec) Size() int                      { return 16 }
func (edgeCodec) Encode(dst []byte, v core.Edge) { putEdge(dst, v) }
func (edgeCodec) Decode(src []byte) core.Edge    { return getEdge(src) }
