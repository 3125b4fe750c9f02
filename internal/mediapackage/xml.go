package mediapackage

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type manifestXML struct {
	XMLName xml.Name   `xml:"mediapackage"`
	ID      string     `xml:"id,attr"`
	Title   string     `xml:"title,omitempty"`
	Tracks  []trackXML `xml:"media>track"`
}

type trackXML struct {
	XMLName    xml.Name   `xml:"track"`
	ID         string     `xml:"id,attr,omitempty"`
	Type       string     `xml:"type,attr,omitempty"`
	MimeType   string     `xml:"mimetype,omitempty"`
	URL        string     `xml:"url"`
	DurationMS int64      `xml:"duration,omitempty"`
	Tags       []string   `xml:"tags>tag,omitempty"`
	Audio      *streamXML `xml:"audio"`
	Video      *streamXML `xml:"video"`
}

type streamXML struct {
	ID string `xml:"id,attr,omitempty"`
}

func trackToXML(t *Track) trackXML {
	out := trackXML{
		ID:         t.ID,
		Type:       t.Flavor.String(),
		MimeType:   t.MimeType,
		URL:        t.URI,
		DurationMS: t.Duration.Milliseconds(),
		Tags:       t.Tags,
	}
	if t.HasAudio {
		out.Audio = &streamXML{ID: "audio-1"}
	}
	if t.HasVideo {
		out.Video = &streamXML{ID: "video-1"}
	}
	return out
}

func trackFromXML(in trackXML) (*Track, error) {
	track := &Track{
		ID:       strings.TrimSpace(in.ID),
		MimeType: strings.TrimSpace(in.MimeType),
		URI:      strings.TrimSpace(in.URL),
		Duration: time.Duration(in.DurationMS) * time.Millisecond,
		HasAudio: in.Audio != nil,
		HasVideo: in.Video != nil,
	}
	if flavor := strings.TrimSpace(in.Type); flavor != "" {
		parsed, err := ParseFlavor(flavor)
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", in.ID, err)
		}
		track.Flavor = parsed
	}
	for _, tag := range in.Tags {
		track.AddTag(tag)
	}
	return track, nil
}

// MarshalTrack serializes a track descriptor.
func MarshalTrack(t *Track) (string, error) {
	if t == nil {
		return "", fmt.Errorf("marshal track: track is nil")
	}
	data, err := xml.Marshal(trackToXML(t))
	if err != nil {
		return "", fmt.Errorf("marshal track: %w", err)
	}
	return string(data), nil
}

// ParseTrack deserializes a track descriptor, such as a composer job payload.
func ParseTrack(payload string) (*Track, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, fmt.Errorf("parse track: empty payload")
	}
	var in trackXML
	if err := xml.Unmarshal([]byte(payload), &in); err != nil {
		return nil, fmt.Errorf("parse track: %w", err)
	}
	return trackFromXML(in)
}

// ReadManifest decodes a media package manifest.
func ReadManifest(r io.Reader) (*MediaPackage, error) {
	var in manifestXML
	if err := xml.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	mp := New(in.ID)
	mp.SetTitle(in.Title)
	for _, raw := range in.Tracks {
		track, err := trackFromXML(raw)
		if err != nil {
			return nil, fmt.Errorf("decode manifest: %w", err)
		}
		if _, err := mp.Add(track); err != nil {
			return nil, fmt.Errorf("decode manifest: %w", err)
		}
	}
	return mp, nil
}

// WriteManifest encodes mp as an indented manifest.
func WriteManifest(w io.Writer, mp *MediaPackage) error {
	out := manifestXML{ID: mp.ID(), Title: mp.Title()}
	for _, h := range mp.Handles() {
		out.Tracks = append(out.Tracks, trackToXML(mp.Track(h)))
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// LoadManifestFile reads a manifest from disk.
func LoadManifestFile(path string) (*MediaPackage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()
	return ReadManifest(file)
}

// SaveManifestFile writes the manifest next to path and renames it into place.
func SaveManifestFile(path string, mp *MediaPackage) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+".tmp")
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := WriteManifest(file, mp); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}
