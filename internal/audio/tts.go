package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"wordcards/internal/config"
	"wordcards/internal/models"
)

const defaultEndpoint = "https://translate.google.com/translate_tts"

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9_]+`)

// TTSService fetches pronunciation audio and caches it as MP3 files
type TTSService struct {
	audioDir string
	endpoint string
	timeout  time.Duration
	client   *http.Client
	log      logrus.FieldLogger
}

// FamilyAudio lists the files generated for one word family
type FamilyAudio struct {
	Words    map[string]string   // word -> filename
	Examples map[string][]string // word -> example sentence filenames
}

// NewTTSService creates a new TTS service; a nil client uses one with the configured timeout
func NewTTSService(cfg config.AudioConfig, client *http.Client, logger logrus.FieldLogger) *TTSService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &TTSService{
		audioDir: cfg.Dir,
		endpoint: endpoint,
		timeout:  timeout,
		client:   client,
		log:      logger.WithField("component", "audio"),
	}
}

func sanitize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	return strings.Trim(unsafeFilenameChars.ReplaceAllString(name, ""), "_")
}

// GenerateAudioFile converts a word to speech and saves it as word_<word>.mp3
// Returns the filename (not full path) on success
func (s *TTSService) GenerateAudioFile(ctx context.Context, text string) (string, error) {
	return s.GenerateAudioFileWithPrefix(ctx, text, "word_"+text)
}

// GenerateAudioFileWithPrefix converts text to speech and saves it under a custom file name
func (s *TTSService) GenerateAudioFileWithPrefix(ctx context.Context, text, prefix string) (string, error) {
	name := sanitize(prefix)
	if name == "" {
		return "", fmt.Errorf("no usable file name for %q", text)
	}
	filename := name + ".mp3"
	path := filepath.Join(s.audioDir, filename)

	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := s.fetch(ctx, text, path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}

	s.log.WithField("file", filename).Debug("Audio generated")
	return filename, nil
}

// fetch downloads speech for text from the TTS endpoint into outputPath
func (s *TTSService) fetch(ctx context.Context, text, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", strconv.Itoa(len(text)))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set user agent (required by Google)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}

	// Download into a temp file, then rename into place
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".tts-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return os.Rename(tmp.Name(), outputPath)
}

// GenerateFamilyAudio produces audio for every word of a family and its example sentences
func (s *TTSService) GenerateFamilyAudio(ctx context.Context, family models.WordFamily) (*FamilyAudio, error) {
	result := &FamilyAudio{
		Words:    make(map[string]string, len(family.Words)),
		Examples: make(map[string][]string, len(family.Words)),
	}

	for _, word := range family.Words {
		filename, err := s.GenerateAudioFile(ctx, word.Word)
		if err != nil {
			return result, fmt.Errorf("failed to generate audio for '%s': %w", word.Word, err)
		}
		result.Words[word.Word] = filename

		for i, example := range word.Examples {
			prefix := fmt.Sprintf("example_%s_%s_%d", family.ID, word.Word, i+1)
			filename, err := s.GenerateAudioFileWithPrefix(ctx, example.EN, prefix)
			if err != nil {
				return result, fmt.Errorf("failed to generate audio for example %d of '%s': %w", i+1, word.Word, err)
			}
			result.Examples[word.Word] = append(result.Examples[word.Word], filename)
		}
	}

	s.log.WithFields(logrus.Fields{"family": family.ID, "words": len(result.Words)}).Info("Family audio ready")
	return result, nil
}

// DeleteAudioFile removes an audio file
func (s *TTSService) DeleteAudioFile(filename string) error {
	path := filepath.Join(s.audioDir, filepath.Base(filename))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil // Already deleted
	}

	return os.Remove(path)
}

// GetAllAudioFiles returns a list of all MP3 files in the audio directory
func (s *TTSService) GetAllAudioFiles() ([]string, error) {
	files, err := os.ReadDir(s.audioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio directory: %w", err)
	}

	var audioFiles []string
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".mp3" {
			audioFiles = append(audioFiles, file.Name())
		}
	}

	return audioFiles, nil
}
