package libjitsi

// RTPLevelSource is implemented by the caller's RTP/RTCP stack: it is the
// boundary between packet reception (out of scope for this engine) and the
// decision engine's ingress. A caller that already extracts per-packet
// audio levels from the RTP header extension can simply call
// Conference.LevelChanged directly; RTPLevelSource exists for callers that
// want a typed seam to mock or swap that extraction step.
type RTPLevelSource interface {
	OnLevel(ssrc SSRC, level int32)
}

// ClientToMixerLevelExtension decodes the one-byte client-to-mixer audio
// level header extension defined by RFC 6464 and forwards the result to a
// Conference. Only the single-byte form is handled; the engine has no use
// for the voice-activity bit the extension also carries.
type ClientToMixerLevelExtension struct {
	Conference *Conference
}

// Decode extracts the audio level from a one-byte RFC 6464 extension
// payload and reports it for ssrc. The level is carried in the low 7 bits;
// RFC 6464 defines it as the attenuation in -dBov, so a header value of 0
// means full volume. The decision engine treats larger values as louder,
// matching the rest of this engine's [0,127] level convention, so the value
// is inverted here at the boundary.
func (e ClientToMixerLevelExtension) Decode(ssrc SSRC, payload []byte) {
	if len(payload) == 0 {
		return
	}
	attenuation := int32(payload[0] & 0x7f)
	e.Conference.LevelChanged(ssrc, MaxLevel-attenuation)
}
