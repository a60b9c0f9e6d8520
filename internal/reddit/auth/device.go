package auth

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Platform is the mobile OS a spoofed device claims to run.
type Platform int

const (
	PlatformAndroid Platform = iota
	PlatformIOS
)

func (p Platform) String() string {
	switch p {
	case PlatformAndroid:
		return "android"
	case PlatformIOS:
		return "ios"
	default:
		return fmt.Sprintf("platform(%d)", int(p))
	}
}

// Headers maps header names to values.
type Headers map[string]string

// Clone returns an independent copy of h.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Keys returns the header names in sorted order. Requests apply headers in
// this order so that they are built deterministically.
func (h Headers) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Device is a spoofed mobile client identity. It is chosen once and reused for
// every token exchange made on its behalf.
type Device struct {
	Platform      Platform
	OAuthClientID string
	// InstanceID is a UUID that identifies this install to the server
	InstanceID string

	// InitialHeaders are sent with the token request only.
	InitialHeaders Headers
	// PersistentHeaders are the baseline for every authenticated request.
	PersistentHeaders Headers
}

// Clone returns a copy of d that shares no header maps with it.
func (d Device) Clone() Device {
	d.InitialHeaders = d.InitialHeaders.Clone()
	d.PersistentHeaders = d.PersistentHeaders.Clone()
	return d
}

// GenerateDevice picks a random platform and builds a consistent identity for
// it. Choices are drawn from rng; a nil rng uses the global source.
func GenerateDevice(rng *rand.Rand) Device {
	if intN(rng, 2) == 0 {
		return androidDevice(rng)
	}
	return iosDevice(rng)
}

func androidDevice(rng *rand.Rand) Device {
	instanceID := uuid.NewString()

	appVersion := choose(rng, AndroidAppVersions)
	osVersion := 9 + intN(rng, 6) // 9..14
	userAgent := fmt.Sprintf("%s/%s/Android %d", productName, appVersion, osVersion)

	headers := Headers{
		"Client-Vendor-Id":   instanceID,
		"X-Reddit-Device-Id": instanceID,
		"User-Agent":         userAgent,
	}

	log.Info().
		Str("platform", PlatformAndroid.String()).
		Str("instanceId", instanceID).
		Str("userAgent", userAgent).
		Str("oauthClientId", AndroidClientID).
		Msg("spoofing android client")

	return Device{
		Platform:          PlatformAndroid,
		OAuthClientID:     AndroidClientID,
		InstanceID:        instanceID,
		InitialHeaders:    headers,
		PersistentHeaders: headers.Clone(),
	}
}

func iosDevice(rng *rand.Rand) Device {
	instanceID := uuid.NewString()

	appVersion := choose(rng, IOSAppVersions)
	osVersion := choose(rng, IOSOSVersions)
	userAgent := fmt.Sprintf("%s/%s/iOS %s", productName, appVersion, osVersion)
	model := fmt.Sprintf("iPhone%d,1", 8+intN(rng, 8)) // iPhone8,1..iPhone15,1

	initial := Headers{
		"X-Reddit-DPR": "2",
		"User-Agent":   userAgent,
		"Device-Name":  model,
	}

	persistent := initial.Clone()
	persistent["Client-Vendor-Id"] = instanceID
	persistent["x-dev-ad-id"] = placeholderAdID
	persistent["Reddit-User_Id"] = anonymousUserID
	persistent["x-reddit-device-id"] = instanceID

	log.Info().
		Str("platform", PlatformIOS.String()).
		Str("device", model).
		Str("instanceId", instanceID).
		Str("userAgent", userAgent).
		Str("oauthClientId", IOSClientID).
		Msg("spoofing ios client")

	return Device{
		Platform:          PlatformIOS,
		OAuthClientID:     IOSClientID,
		InstanceID:        instanceID,
		InitialHeaders:    initial,
		PersistentHeaders: persistent,
	}
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}

func choose(rng *rand.Rand, list []string) string {
	return list[intN(rng, len(list))]
}
