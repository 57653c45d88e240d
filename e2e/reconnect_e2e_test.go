package e2e

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	gamelift "github.com/rjsadow/gamelift-server-sdk-go"
)

var _ = Describe("mid-session reconnect", func() {
	It("moves subsequent traffic to the endpoint named by RefreshConnection", func() {
		gwA := newFakeGateway()
		DeferCleanup(gwA.close)
		gwB := newFakeGateway()
		DeferCleanup(gwB.close)

		client, err := gamelift.InitSDK(gamelift.ServerParameters{
			WebSocketURL: gwA.url(),
			ProcessID:    "process-1",
			HostID:       "host-1",
			FleetID:      "fleet-1",
			AuthToken:    "token-1",
		})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(client.Destroy)

		connA := gwA.nextConn(time.Second)
		Expect(connA).NotTo(BeNil())

		Expect(sendEvent(connA, "RefreshConnection", struct {
			RefreshConnectionEndpoint string
			AuthToken                 string
		}{
			RefreshConnectionEndpoint: gwB.url(),
			AuthToken:                 "token-2",
		})).To(Succeed())

		connB := gwB.nextConn(time.Second)
		Expect(connB).NotTo(BeNil())

		// Traffic issued after the swap reaches the new gateway, not the old one.
		healthErrCh := make(chan error, 1)
		go func() {
			_, err := client.GetComputeCertificate()
			healthErrCh <- err
		}()

		frame, err := readFrame(connB)
		Expect(err).NotTo(HaveOccurred())
		Expect(frame.Action).To(Equal("GetComputeCertificate"))
		Expect(respondOK(connB, frame.Action, frame.RequestID, gamelift.GetComputeCertificateResult{
			CertificatePath: "/local/cert.pem",
			ComputeName:     "host-1",
		})).To(Succeed())
		Eventually(healthErrCh).Should(Receive(BeNil()))
	})
})
