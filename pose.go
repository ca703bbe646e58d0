package mcast

import (
	"encoding/binary"
	"math"
)

const (
	// DefaultPosePort is the port pose publishers conventionally use.
	DefaultPosePort = 17436

	// PoseSize is the encoded size of a Pose.
	PoseSize = 12 * 8

	poseReadLimit = 1024
)

// Pose is a rigid transform flattened to twelve values: a 3x3 rotation
// followed by a translation, as published at the end of each pose message.
type Pose [12]float64

// Valid reports whether p holds data; an empty pose starts with NaN.
func (p Pose) Valid() bool {
	return !math.IsNaN(p[0])
}

// DecodePose reads the twelve little-endian float64 values that end msg.
// It reports false when msg is too short to hold them.
func DecodePose(msg []byte) (Pose, bool) {
	var p Pose
	if len(msg) < PoseSize {
		return p, false
	}
	tail := msg[len(msg)-PoseSize:]
	for i := range p {
		p[i] = math.Float64frombits(binary.LittleEndian.Uint64(tail[i*8:]))
	}
	return p, true
}

// EncodePose appends p to b in the layout DecodePose reads.
func EncodePose(b []byte, p Pose) []byte {
	for _, v := range p {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
	}
	return b
}

// PoseReader polls a Listener for the latest pose without blocking. The
// Listener stays owned by the caller.
type PoseReader struct {
	l   *Listener
	buf [poseReadLimit]byte
}

// NewPoseReader returns a PoseReader over l.
func NewPoseReader(l *Listener) *PoseReader {
	return &PoseReader{l: l}
}

// Latest returns the pose carried by the newest unread message, reading at
// most the first 1024 bytes of it. Without a new message, or when the
// message is too short, the returned pose is not Valid.
// Latest is not safe for concurrent use.
func (r *PoseReader) Latest() Pose {
	n := r.l.ReceiveInto(r.buf[:], 0)
	p, ok := DecodePose(r.buf[:n])
	if !ok {
		p[0] = math.NaN()
	}
	return p
}
