/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modes_test

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"github.com/hyperledger/fabric-blockcipher/bccsp/modes"
	"github.com/hyperledger/fabric-blockcipher/bccsp/rijndael"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Run", func() {
	var (
		vf        vectorFile
		key, iv   []byte
		plaintext []byte
	)

	BeforeEach(func() {
		vf = loadVectors("testdata/sp800-38a.yaml")
		key = unhex(vf.Key)
		iv = unhex(vf.IV)
		plaintext = unhex(vf.Plaintext)
	})

	Describe("published vectors", func() {
		It("encrypts and decrypts every vector", func() {
			Expect(vf.Vectors).To(HaveLen(5))
			for _, v := range vf.Vectors {
				mode, err := modes.ParseMode(v.Mode)
				Expect(err).NotTo(HaveOccurred())

				pt := plaintext
				if v.Plaintext != "" {
					pt = unhex(v.Plaintext)
				}
				ct := unhex(v.Ciphertext)

				cfg := modes.Config{Mode: mode, Direction: modes.Encrypt, Key: key, IV: iv, SegmentSize: v.Segment, Input: pt}
				out, err := modes.Run(cfg)
				Expect(err).NotTo(HaveOccurred(), v.Name)
				Expect(out).To(Equal(ct), v.Name)

				cfg.Direction = modes.Decrypt
				cfg.Input = ct
				out, err = modes.Run(cfg)
				Expect(err).NotTo(HaveOccurred(), v.Name)
				Expect(out).To(Equal(pt), v.Name)
			}
		})
	})

	Describe("agreement with crypto/cipher", func() {
		var (
			msg    []byte
			stdlib cipher.Block
		)

		BeforeEach(func() {
			msg = make([]byte, 16*37)
			_, err := rand.Read(msg)
			Expect(err).NotTo(HaveOccurred())

			stdlib, err = aes.NewCipher(key)
			Expect(err).NotTo(HaveOccurred())
		})

		run := func(cfg modes.Config) []byte {
			out, err := modes.Run(cfg)
			Expect(err).NotTo(HaveOccurred())
			return out
		}

		It("matches CBC", func() {
			expected := make([]byte, len(msg))
			cipher.NewCBCEncrypter(stdlib, iv).CryptBlocks(expected, msg)
			Expect(run(modes.Config{Mode: modes.CBC, Key: key, IV: iv, Input: msg})).To(Equal(expected))

			decrypted := make([]byte, len(msg))
			cipher.NewCBCDecrypter(stdlib, iv).CryptBlocks(decrypted, expected)
			Expect(run(modes.Config{Mode: modes.CBC, Direction: modes.Decrypt, Key: key, IV: iv, Input: expected})).To(Equal(decrypted))
		})

		It("matches full block CFB", func() {
			expected := make([]byte, len(msg))
			cipher.NewCFBEncrypter(stdlib, iv).XORKeyStream(expected, msg)
			Expect(run(modes.Config{Mode: modes.CFB, Key: key, IV: iv, SegmentSize: 16, Input: msg})).To(Equal(expected))
			Expect(run(modes.Config{Mode: modes.CFB, Direction: modes.Decrypt, Key: key, IV: iv, SegmentSize: 16, Input: expected})).To(Equal(msg))
		})

		It("matches OFB", func() {
			expected := make([]byte, len(msg))
			cipher.NewOFB(stdlib, iv).XORKeyStream(expected, msg)
			Expect(run(modes.Config{Mode: modes.OFB, Key: key, IV: iv, Input: msg})).To(Equal(expected))
		})

		It("matches ECB block by block", func() {
			expected := make([]byte, len(msg))
			for off := 0; off < len(msg); off += 16 {
				stdlib.Encrypt(expected[off:off+16], msg[off:off+16])
			}
			Expect(run(modes.Config{Mode: modes.ECB, Key: key, Input: msg})).To(Equal(expected))
		})

		It("serves as a cipher.Block for the standard modes", func() {
			c, err := rijndael.NewCipher(key)
			Expect(err).NotTo(HaveOccurred())

			expected := make([]byte, len(msg))
			cipher.NewCBCEncrypter(c, iv).CryptBlocks(expected, msg)
			Expect(run(modes.Config{Mode: modes.CBC, Key: key, IV: iv, Input: msg})).To(Equal(expected))
		})
	})

	DescribeTable("round trips every segment size",
		func(segment int) {
			msg := make([]byte, 16*segment)
			_, err := rand.Read(msg)
			Expect(err).NotTo(HaveOccurred())

			cfg := modes.Config{Mode: modes.CFB, Key: key, IV: iv, SegmentSize: segment, Input: msg}
			ct, err := modes.Run(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(ct).To(HaveLen(len(msg)))

			cfg.Direction = modes.Decrypt
			cfg.Input = ct
			pt, err := modes.Run(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(pt).To(Equal(msg))
		},
		Entry("1 byte", 1),
		Entry("3 bytes", 3),
		Entry("8 bytes", 8),
		Entry("15 bytes", 15),
		Entry("16 bytes", 16),
	)

	Describe("truncation", func() {
		It("drops the trailing partial block", func() {
			for _, mode := range []modes.Mode{modes.ECB, modes.CBC, modes.OFB} {
				full, err := modes.Run(modes.Config{Mode: mode, Key: key, IV: iv, Input: plaintext[:32]})
				Expect(err).NotTo(HaveOccurred())

				out, err := modes.Run(modes.Config{Mode: mode, Key: key, IV: iv, Input: plaintext[:45]})
				Expect(err).NotTo(HaveOccurred())
				Expect(out).To(Equal(full), mode.String())
			}
		})

		It("drops the trailing partial segment", func() {
			out, err := modes.Run(modes.Config{Mode: modes.CFB, Key: key, IV: iv, SegmentSize: 5, Input: plaintext[:12]})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(10))
		})

		It("returns empty output for input shorter than one unit", func() {
			out, err := modes.Run(modes.Config{Mode: modes.CBC, Key: key, IV: iv, Input: plaintext[:15]})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeEmpty())

			out, err = modes.Run(modes.Config{Mode: modes.ECB, Key: key, Input: nil})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeEmpty())
		})
	})

	Describe("relationships between modes", func() {
		It("reduces CBC with a zero IV to ECB on the first block", func() {
			zero := make([]byte, 16)
			cbc, err := modes.Run(modes.Config{Mode: modes.CBC, Key: key, IV: zero, Input: plaintext[:16]})
			Expect(err).NotTo(HaveOccurred())
			ecb, err := modes.Run(modes.Config{Mode: modes.ECB, Key: key, Input: plaintext[:16]})
			Expect(err).NotTo(HaveOccurred())
			Expect(cbc).To(Equal(ecb))
		})

		It("produces the same first block for full block CFB and OFB", func() {
			cfb, err := modes.Run(modes.Config{Mode: modes.CFB, Key: key, IV: iv, SegmentSize: 16, Input: plaintext})
			Expect(err).NotTo(HaveOccurred())
			ofb, err := modes.Run(modes.Config{Mode: modes.OFB, Key: key, IV: iv, Input: plaintext})
			Expect(err).NotTo(HaveOccurred())
			Expect(cfb[:16]).To(Equal(ofb[:16]))
			Expect(cfb[16:]).NotTo(Equal(ofb[16:]))
		})

		It("treats OFB encryption and decryption identically", func() {
			enc, err := modes.Run(modes.Config{Mode: modes.OFB, Direction: modes.Encrypt, Key: key, IV: iv, Input: plaintext})
			Expect(err).NotTo(HaveOccurred())
			dec, err := modes.Run(modes.Config{Mode: modes.OFB, Direction: modes.Decrypt, Key: key, IV: iv, Input: plaintext})
			Expect(err).NotTo(HaveOccurred())
			Expect(enc).To(Equal(dec))
		})

		It("ignores the IV in ECB", func() {
			a, err := modes.Run(modes.Config{Mode: modes.ECB, Key: key, IV: iv, Input: plaintext})
			Expect(err).NotTo(HaveOccurred())
			b, err := modes.Run(modes.Config{Mode: modes.ECB, Key: key, Input: plaintext})
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(b))
		})

		It("does not modify the input", func() {
			input := append([]byte(nil), plaintext...)
			_, err := modes.Run(modes.Config{Mode: modes.CBC, Direction: modes.Decrypt, Key: key, IV: iv, Input: input})
			Expect(err).NotTo(HaveOccurred())
			Expect(bytes.Equal(input, plaintext)).To(BeTrue())
		})
	})

	Describe("validation", func() {
		It("rejects a short key", func() {
			out, err := modes.Run(modes.Config{Mode: modes.ECB, Key: key[:15], Input: plaintext})
			Expect(errors.Is(err, rijndael.ErrInvalidKeyLength)).To(BeTrue())
			Expect(err).To(MatchError("key must be 16 bytes, got 15: invalid key length"))
			Expect(out).To(BeNil())
		})

		It("rejects a missing IV for chained modes", func() {
			for _, mode := range []modes.Mode{modes.CBC, modes.CFB, modes.OFB} {
				_, err := modes.Run(modes.Config{Mode: mode, Key: key, SegmentSize: 16, Input: plaintext})
				Expect(errors.Is(err, modes.ErrInvalidIVLength)).To(BeTrue(), mode.String())
			}
			_, err := modes.Run(modes.Config{Mode: modes.CBC, Key: key, IV: iv[:8], Input: plaintext})
			Expect(err).To(MatchError("CBC requires a 16 byte IV, got 8: invalid IV length"))
		})

		It("rejects segment sizes outside 1 to 16", func() {
			for _, s := range []int{0, 17, -1} {
				_, err := modes.Run(modes.Config{Mode: modes.CFB, Key: key, IV: iv, SegmentSize: s, Input: plaintext})
				Expect(errors.Is(err, modes.ErrInvalidSegmentSize)).To(BeTrue())
			}
		})

		It("ignores the segment size outside CFB", func() {
			_, err := modes.Run(modes.Config{Mode: modes.OFB, Key: key, IV: iv, SegmentSize: 99, Input: plaintext})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects unknown selectors", func() {
			_, err := modes.Run(modes.Config{Mode: modes.Mode(9), Key: key, Input: plaintext})
			Expect(errors.Is(err, modes.ErrUnknownMode)).To(BeTrue())

			_, err = modes.Run(modes.Config{Mode: modes.ECB, Direction: modes.Direction(4), Key: key, Input: plaintext})
			Expect(errors.Is(err, modes.ErrUnknownDirection)).To(BeTrue())
		})
	})
})

var _ = Describe("ParseMode", func() {
	DescribeTable("accepted forms",
		func(in string, expected modes.Mode) {
			m, err := modes.ParseMode(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(expected))
		},
		Entry("ecb selector", "0", modes.ECB),
		Entry("cfb selector", "1", modes.CFB),
		Entry("cbc selector", "2", modes.CBC),
		Entry("ofb selector", " 3 ", modes.OFB),
		Entry("lower case name", "cbc", modes.CBC),
		Entry("upper case name", "OFB", modes.OFB),
	)

	It("rejects everything else", func() {
		for _, in := range []string{"4", "-1", "ctr", ""} {
			_, err := modes.ParseMode(in)
			Expect(errors.Is(err, modes.ErrUnknownMode)).To(BeTrue(), in)
		}
	})

	It("names modes", func() {
		Expect(modes.CFB.String()).To(Equal("CFB"))
		Expect(modes.Mode(7).String()).To(Equal("Mode(7)"))
		Expect(modes.ECB.UsesIV()).To(BeFalse())
		Expect(modes.OFB.UsesIV()).To(BeTrue())
	})
})

var _ = Describe("ParseDirection", func() {
	It("accepts selectors and names", func() {
		for _, in := range []string{"0", "enc", "Encrypt", "encrypting"} {
			d, err := modes.ParseDirection(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(modes.Encrypt))
		}
		for _, in := range []string{"1", "DEC", "decrypt", "decrypting"} {
			d, err := modes.ParseDirection(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(modes.Decrypt))
		}
	})

	It("rejects everything else", func() {
		_, err := modes.ParseDirection("2")
		Expect(errors.Is(err, modes.ErrUnknownDirection)).To(BeTrue())
		Expect(modes.Direction(2).String()).To(Equal("Direction(2)"))
	})
})
