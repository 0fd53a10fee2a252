// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"
)

// createWAVFile builds a canonical WAV around raw sample bytes.
func createWAVFile(format uint16, sampleRate, channels, bitsPerSample int, data []byte) []byte {
	buf := new(bytes.Buffer)

	blockAlign := uint16(channels * bitsPerSample / 8)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, format)
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate)*uint32(blockAlign))
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}

func pcm16(samples ...int16) []byte {
	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}
	return data
}

func TestWAVDecoder_Mono16(t *testing.T) {
	t.Parallel()

	wavData := createWAVFile(wavFormatPCM, 8000, 1, 16, pcm16(0, 16384, 32767, -16384, -32768))

	src, err := WAVDecoder{}.Decode(bytes.NewReader(wavData))
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}

	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", src.SampleRate())
	}
	if src.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", src.Channels())
	}

	dst := make([]float32, 5)
	n, err := src.ReadSamples(dst)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 5 {
		t.Fatalf("ReadSamples() n = %d, want 5", n)
	}

	want := []float32{0, 0.5, 1, -0.5, -1}
	for i := range want {
		if math.Abs(float64(dst[i]-want[i])) > 0.01 {
			t.Errorf("dst[%d] = %v, want ~%v", i, dst[i], want[i])
		}
	}
}

func TestWAVDecoder_Stereo(t *testing.T) {
	t.Parallel()

	wavData := createWAVFile(wavFormatPCM, 44100, 2, 16, pcm16(100, 200, 300, 400))

	src, err := WAVDecoder{}.Decode(bytes.NewReader(wavData))
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}
	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("format = %d Hz/%d ch, want 44100 Hz/2 ch", src.SampleRate(), src.Channels())
	}
}

func TestWAVDecoder_Unsigned8Bit(t *testing.T) {
	t.Parallel()

	wavData := createWAVFile(wavFormatPCM, 8000, 1, 8, []byte{128, 0, 192, 64})

	src, err := WAVDecoder{}.Decode(bytes.NewReader(wavData))
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("ReadSamples() n = %d, want 4", n)
	}

	want := []float32{0, -1, 0.5, -0.5}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestWAVDecoder_NotWAVFile(t *testing.T) {
	t.Parallel()

	_, err := WAVDecoder{}.Decode(bytes.NewReader([]byte("NOT A WAV FILE DATA")))
	if err == nil {
		t.Error("Decode() error = nil, want error")
	}
}

func TestWAVDecoder_NonPCMFormat(t *testing.T) {
	t.Parallel()

	// IEEE float
	wavData := createWAVFile(3, 8000, 1, 32, make([]byte, 16))

	_, err := WAVDecoder{}.Decode(bytes.NewReader(wavData))
	if err == nil {
		t.Error("Decode() error = nil, want error for non-PCM format")
	}
}

func TestWAVDecoder_PlainReader(t *testing.T) {
	t.Parallel()

	wavData := createWAVFile(wavFormatPCM, 16000, 1, 16, pcm16(1, 2, 3))

	// io.MultiReader hides Seek, forcing the in-memory path
	src, err := WAVDecoder{}.Decode(io.MultiReader(bytes.NewReader(wavData)))
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}
	if src.SampleRate() != 16000 {
		t.Errorf("SampleRate() = %d, want 16000", src.SampleRate())
	}
}

func TestAIFFDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := AIFFDecoder{}.Decode(bytes.NewReader([]byte("This is not AIFF data")))
	if err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}
