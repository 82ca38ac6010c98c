// Package libjitsi implements a dominant-speaker identification engine for
// multipoint audio conferences, following Volfin & Cohen, "Dominant Speaker
// Identification for Multipoint Videoconferencing." Given a stream of
// per-participant audio-level reports tagged by SSRC, it decides which
// participant currently dominates the conversation and notifies observers
// whenever that identity changes.
//
// Packet reception, RTP header-extension parsing, and thread-pool
// provisioning are the caller's responsibility; see RTPLevelSource for the
// seam between that layer and Conference.LevelChanged.
package libjitsi
