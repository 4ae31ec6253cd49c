package dto

import (
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// StorageClass is the storage tier an object resides in.
type StorageClass string

const (
	ClassStandard           StorageClass = "STANDARD"
	ClassStandardIA         StorageClass = "STANDARD_IA"
	ClassOneZoneIA          StorageClass = "ONEZONE_IA"
	ClassIntelligentTiering StorageClass = "INTELLIGENT_TIERING"
	ClassGlacier            StorageClass = "GLACIER"
	ClassGlacierIR          StorageClass = "GLACIER_IR"
	ClassDeepArchive        StorageClass = "DEEP_ARCHIVE"
	ClassReducedRedundancy  StorageClass = "REDUCED_REDUNDANCY"
	ClassUnknown            StorageClass = "UNKNOWN"
)

// SelectableClasses returns the storage classes that are valid targets
// for a migration. Reduced redundancy is read-only legacy and unknown
// is a placeholder, neither can be requested via CopyObject.
func SelectableClasses() []StorageClass {
	return []StorageClass{
		ClassStandard,
		ClassStandardIA,
		ClassOneZoneIA,
		ClassIntelligentTiering,
		ClassGlacier,
		ClassGlacierIR,
		ClassDeepArchive,
	}
}

// IsSelectable reports whether c is a valid migration target.
func (c StorageClass) IsSelectable() bool {
	for _, s := range SelectableClasses() {
		if c == s {
			return true
		}
	}
	return false
}

// Label returns the human name shown in listings.
func (c StorageClass) Label() string {
	switch c {
	case ClassStandard:
		return "Standard"
	case ClassStandardIA:
		return "Standard-IA"
	case ClassOneZoneIA:
		return "One Zone-IA"
	case ClassIntelligentTiering:
		return "Intelligent-Tiering"
	case ClassGlacier:
		return "Glacier Flexible"
	case ClassGlacierIR:
		return "Glacier Instant"
	case ClassDeepArchive:
		return "Deep Archive"
	case ClassReducedRedundancy:
		return "Reduced Redundancy"
	default:
		return "Unknown"
	}
}

// ClassFromAPI maps an aws-sdk storage class to ours. An empty value
// means STANDARD (ListObjectsV2 omits the field for standard objects).
func ClassFromAPI(sc types.StorageClass) StorageClass {
	switch sc {
	case "", types.StorageClassStandard:
		return ClassStandard
	case types.StorageClassStandardIa:
		return ClassStandardIA
	case types.StorageClassOnezoneIa:
		return ClassOneZoneIA
	case types.StorageClassIntelligentTiering:
		return ClassIntelligentTiering
	case types.StorageClassGlacier:
		return ClassGlacier
	case types.StorageClassGlacierIr:
		return ClassGlacierIR
	case types.StorageClassDeepArchive:
		return ClassDeepArchive
	case types.StorageClassReducedRedundancy:
		return ClassReducedRedundancy
	default:
		return ClassUnknown
	}
}

// ToAPI maps the class back to the aws-sdk type. The second return is
// false for classes that cannot be requested via the API.
func (c StorageClass) ToAPI() (types.StorageClass, bool) {
	if !c.IsSelectable() {
		return "", false
	}
	return types.StorageClass(c), true
}
