// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package macho

import "strconv"

// Platform is the target platform recorded in LC_BUILD_VERSION.
type Platform uint32

// Known platforms.
const (
	PlatformMacOS             Platform = 1
	PlatformIOS               Platform = 2
	PlatformTVOS              Platform = 3
	PlatformWatchOS           Platform = 4
	PlatformBridgeOS          Platform = 5
	PlatformMacCatalyst       Platform = 6
	PlatformIOSSimulator      Platform = 7
	PlatformTVOSSimulator     Platform = 8
	PlatformWatchOSSimulator  Platform = 9
	PlatformDriverKit         Platform = 10
	PlatformVisionOS          Platform = 11
	PlatformVisionOSSimulator Platform = 12
)

var platformNames = map[Platform]string{
	PlatformMacOS:             "macOS",
	PlatformIOS:               "iOS",
	PlatformTVOS:              "tvOS",
	PlatformWatchOS:           "watchOS",
	PlatformBridgeOS:          "bridgeOS",
	PlatformMacCatalyst:       "macCatalyst",
	PlatformIOSSimulator:      "iOS simulator",
	PlatformTVOSSimulator:     "tvOS simulator",
	PlatformWatchOSSimulator:  "watchOS simulator",
	PlatformDriverKit:         "DriverKit",
	PlatformVisionOS:          "visionOS",
	PlatformVisionOSSimulator: "visionOS simulator",
}

func (p Platform) String() string {
	name, exists := platformNames[p]
	if !exists {
		return "platform(" + strconv.FormatUint(uint64(p), 10) + ")"
	}

	return name
}
