// Package cdn derives transformed media URLs by inserting transformation
// segments into the delivery path. No request is made.
package cdn

import (
	"path"
	"strings"
)

const (
	videoMarker = "/video/upload/"
	imageMarker = "/image/upload/"

	thumbnailTransform = "so_0,f_jpg"
	iosTransform       = "vc_h264,ac_aac"
)

// VideoThumbnailURL returns a JPEG poster frame URL for a video.
func VideoThumbnailURL(url string) string {
	return rewrite(url, thumbnailTransform, ".jpg")
}

// IOSCompatibleURL returns an H.264/AAC MP4 URL for a video.
func IOSCompatibleURL(url string) string {
	return rewrite(url, iosTransform, ".mp4")
}

// rewrite inserts transform right after the upload marker and swaps the
// extension. URLs without a marker come back unchanged.
func rewrite(url, transform, ext string) string {
	idx, marker := markerIndex(url)
	if idx < 0 {
		return url
	}
	cut := idx + len(marker)
	rest := url[cut:]
	if strings.HasPrefix(rest, transform+"/") {
		return url
	}
	return url[:cut] + transform + "/" + replaceExt(rest, ext)
}

func markerIndex(url string) (int, string) {
	if i := strings.Index(url, videoMarker); i >= 0 {
		return i, videoMarker
	}
	if i := strings.Index(url, imageMarker); i >= 0 {
		return i, imageMarker
	}
	return -1, ""
}

func replaceExt(p, ext string) string {
	query := ""
	if q := strings.IndexAny(p, "?#"); q >= 0 {
		p, query = p[:q], p[q:]
	}
	if old := path.Ext(p); old != "" {
		p = strings.TrimSuffix(p, old)
	}
	return p + ext + query
}
