package cdn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoThumbnailURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "video",
			in:   "https://cdn.inkbook.test/video/upload/portfolio/abc.mov",
			want: "https://cdn.inkbook.test/video/upload/so_0,f_jpg/portfolio/abc.jpg",
		},
		{
			name: "image marker",
			in:   "https://cdn.inkbook.test/image/upload/chat/x.mp4",
			want: "https://cdn.inkbook.test/image/upload/so_0,f_jpg/chat/x.jpg",
		},
		{
			name: "query kept",
			in:   "https://cdn.inkbook.test/video/upload/v1/a.mp4?sig=1",
			want: "https://cdn.inkbook.test/video/upload/so_0,f_jpg/v1/a.jpg?sig=1",
		},
		{
			name: "no marker",
			in:   "https://elsewhere.test/a.mp4",
			want: "https://elsewhere.test/a.mp4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VideoThumbnailURL(tt.in))
		})
	}
}

func TestIOSCompatibleURL(t *testing.T) {
	in := "https://cdn.inkbook.test/video/upload/portfolio/abc.mov"
	out := IOSCompatibleURL(in)
	assert.Equal(t, "https://cdn.inkbook.test/video/upload/vc_h264,ac_aac/portfolio/abc.mp4", out)
	assert.Equal(t, out, IOSCompatibleURL(out), "rewriting twice is a no-op")
}
