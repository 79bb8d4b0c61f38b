package logger_test

import (
	"bytes"
	"encoding/json"

	"github.com/majormguarde-bit/megre-guard-db/logger"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	var (
		l         *logger.LoggerImpl
		logOutput *bytes.Buffer
	)

	decode := func() map[string]interface{} {
		var actual map[string]interface{}
		Expect(json.Unmarshal(logOutput.Bytes(), &actual)).To(Succeed())
		return actual
	}

	BeforeEach(func() {
		var err error
		l, err = logger.NewWebLogger("test-service", "debug", false)
		Expect(err).ToNot(HaveOccurred())
		logOutput = bytes.NewBufferString("")
		l.SetOutput(logOutput)
	})

	It("Should have `test-service` as service name", func() {
		l.Info("Testing")
		Expect(decode()["service"]).To(Equal("test-service"))
	})

	It("Should have info as log level", func() {
		l.Info("Testing")
		Expect(decode()["level"]).To(Equal("info"))
	})

	It("Should have warn as log level", func() {
		l.Warn("Testing")
		Expect(decode()["level"]).To(Equal("warning"))
	})

	It("Should add a stack trace to errors when asked to", func() {
		l.PrintStackDump = true
		l.Error("Testing")
		actual := decode()
		Expect(actual["level"]).To(Equal("error"))
		Expect(actual["stackTrace"]).ToNot(BeNil())
	})

	It("Should have `Testing` as msg", func() {
		l.Info("Testing")
		Expect(decode()["msg"]).To(Equal("Testing"))
	})

	It("Should tag entries with the transfer id", func() {
		l.WithTransferId("abc123").Info("Testing")
		Expect(decode()["transferId"]).To(Equal("abc123"))
	})

	It("Should reject unknown log levels", func() {
		_, err := logger.NewWebLogger("test-service", "chatty", false)
		Expect(err).To(HaveOccurred())
	})
})
