// ids.go - asset id types and the master-bus sentinel

package amplitude

// AssetID is a unique 64-bit identifier for any asset kind (bus, collection,
// sound, switch-container, event, rtpc, effect, attenuation, environment,
// bank, entity, listener). Zero is always invalid.
type AssetID uint64

// InvalidID is reserved and never assigned to a real asset.
const InvalidID AssetID = 0

// MasterBusID is reserved for the single root of the bus graph.
const MasterBusID AssetID = 1

// Named aliases keep call sites self-documenting without adding real types.
type (
	BusID             = AssetID
	CollectionID      = AssetID
	SoundID           = AssetID
	SwitchContainerID = AssetID
	EventID           = AssetID
	RtpcID            = AssetID
	EffectID          = AssetID
	AttenuationID     = AssetID
	EnvironmentID     = AssetID
	BankID            = AssetID
	EntityID          = AssetID
	ListenerID        = AssetID
)

// ChannelHandle identifies one live playback request. index selects a slot in
// the channel pool; generation is bumped every time a slot is recycled so a
// stale handle from a previous occupant of the same slot reads as invalid
// rather than silently addressing someone else's voice.
type ChannelHandle struct {
	index      uint32
	generation uint32
}

// InvalidChannelHandle is returned by a play request that could not be
// honored; queries against it always report Stopped.
var InvalidChannelHandle = ChannelHandle{}

// Valid reports whether h was ever handed out by the engine.
func (h ChannelHandle) Valid() bool {
	return h.generation != 0
}
