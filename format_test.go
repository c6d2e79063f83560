package piratebay_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dbytex91/piratebay"
)

func TestFormatSize(t *testing.T) {
	for _, tc := range []struct {
		bytes int64
		want  string
	}{
		{0, "0.00 B"},
		{512, "512.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KiB"},
		{1536, "1.50 KiB"},
		{1048576, "1.00 MiB"},
		{4071903232, "3.79 GiB"},
		{1099511627776, "1.00 TiB"},
	} {
		assert.Equal(t, tc.want, piratebay.FormatSize(tc.bytes), "bytes=%d", tc.bytes)
	}
}

func TestFormatSizeNegativeClampsToZero(t *testing.T) {
	assert.Equal(t, "0.00 B", piratebay.FormatSize(-1))
}

func TestFormatTime(t *testing.T) {
	instant := time.Unix(1650412800, 0).UTC()
	assert.Equal(t, "2022-04-20 00:00:00 UTC", piratebay.FormatTime(instant, ""))
	assert.Equal(t, "2022-04-20", piratebay.FormatTime(instant, "2006-01-02"))
}
