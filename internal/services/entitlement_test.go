package services

import (
	"testing"

	"gorm.io/datatypes"
)

func TestDecodePlanLimits(t *testing.T) {
	cases := []struct {
		name       string
		doc        string
		wantImages *int64
		wantBytes  *int64
	}{
		{"numbers", `{"max_images_per_month": 3, "max_bytes_per_month": 1048576}`, i64(3), i64(1048576)},
		{"numeric strings", `{"max_images_per_month": "10", "max_bytes_per_month": " 2048 "}`, i64(10), i64(2048)},
		{"missing keys", `{}`, nil, nil},
		{"null values", `{"max_images_per_month": null, "max_bytes_per_month": null}`, nil, nil},
		{"garbage values", `{"max_images_per_month": "lots", "max_bytes_per_month": true}`, nil, nil},
		{"empty string", `{"max_images_per_month": ""}`, nil, nil},
		{"empty doc", ``, nil, nil},
		{"undecodable doc", `[1,2,3]`, nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := decodePlanLimits(datatypes.JSON([]byte(tc.doc)))
			assertInt64Ptr(t, "max_images", got.MaxImagesPerWindow, tc.wantImages)
			assertInt64Ptr(t, "max_bytes", got.MaxBytesPerWindow, tc.wantBytes)
		})
	}
}

func TestDecodePlanFeatures(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want *bool
	}{
		{"bool true", `{"watermark_enabled": true}`, boolPtr(true)},
		{"bool false", `{"watermark_enabled": false}`, boolPtr(false)},
		{"string true", `{"watermark_enabled": "true"}`, boolPtr(true)},
		{"string mixed case padded", `{"watermark_enabled": " TRUE "}`, boolPtr(true)},
		{"string false", `{"watermark_enabled": "False"}`, boolPtr(false)},
		{"string garbage", `{"watermark_enabled": "yes"}`, nil},
		{"number", `{"watermark_enabled": 1}`, nil},
		{"missing", `{}`, nil},
		{"empty doc", ``, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := decodePlanFeatures(datatypes.JSON([]byte(tc.doc)))
			if (got.WatermarkEnabled == nil) != (tc.want == nil) {
				t.Fatalf("watermark_enabled = %v, want %v", got.WatermarkEnabled, tc.want)
			}
			if got.WatermarkEnabled != nil && *got.WatermarkEnabled != *tc.want {
				t.Fatalf("watermark_enabled = %v, want %v", *got.WatermarkEnabled, *tc.want)
			}
		})
	}
}

func i64(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }

func assertInt64Ptr(t *testing.T, field string, got, want *int64) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("%s = %v, want %v", field, got, want)
	}
	if got != nil && *got != *want {
		t.Fatalf("%s = %d, want %d", field, *got, *want)
	}
}
