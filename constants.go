package ramulator

import "github.com/arkhadem/ramulator2/internal/constants"

// Re-exported constants for public API (spec §6).
const (
	ISRSize         = constants.ISRSize
	MaxChannelCount = constants.MaxChannelCount

	DefaultOverflowCapacity = constants.DefaultOverflowCapacity
	DefaultControllerDepth  = constants.DefaultControllerDepth
	DefaultChannelCount     = constants.DefaultChannelCount
	DefaultShardSize        = constants.DefaultShardSize
	DefaultMetricsBindAddr  = constants.DefaultMetricsBindAddr
)
