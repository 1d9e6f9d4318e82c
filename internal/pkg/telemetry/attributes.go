package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys shared by the directory services and workflows.
const (
	AttrRecordKind = attribute.Key("maubin.record.kind")
	AttrRecordID   = attribute.Key("maubin.record.id")
	AttrCityID     = attribute.Key("maubin.city.id")
	AttrCategory   = attribute.Key("maubin.category")
	AttrLanguage   = attribute.Key("maubin.language")
	AttrCacheHit   = attribute.Key("maubin.cache.hit")
	AttrPathPoints = attribute.Key("maubin.path.points")
	AttrPathMeters = attribute.Key("maubin.path.meters")
	AttrRecords    = attribute.Key("maubin.records")
)
