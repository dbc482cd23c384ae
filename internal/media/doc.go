// Package media implements the device media facade: enumeration of video
// and audio records from the index, folder classification and aggregation,
// and cached thumbnail generation.
package media
