package e2e

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	gamelift "github.com/rjsadow/gamelift-server-sdk-go"
)

var _ = Describe("fleet role credential cache", func() {
	It("fetches once and serves the second call from cache", func() {
		gw := newFakeGateway()
		DeferCleanup(gw.close)

		client, err := gamelift.InitSDK(gamelift.ServerParameters{
			WebSocketURL: gw.url(),
			ProcessID:    "process-1",
			HostID:       "host-1",
			FleetID:      "fleet-1",
			AuthToken:    "token-1",
		})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(client.Destroy)

		conn := gw.nextConn(time.Second)
		Expect(conn).NotTo(BeNil())

		resultCh := make(chan gamelift.GetFleetRoleCredentialsResult, 1)
		errCh := make(chan error, 1)
		go func() {
			res, err := client.GetFleetRoleCredentials("arn:aws:iam::123:role/fleet-role", "")
			resultCh <- res
			errCh <- err
		}()

		frame, err := readFrame(conn)
		Expect(err).NotTo(HaveOccurred())
		Expect(frame.Action).To(Equal("GetFleetRoleCredentials"))

		Expect(respondOK(conn, frame.Action, frame.RequestID, gamelift.GetFleetRoleCredentialsResult{
			AssumedRoleUserArn: "arn:aws:sts::123:assumed-role/fleet-role/fleet-1-host-1",
			AccessKeyID:        "AKIAEXAMPLE",
			SecretAccessKey:    "secret",
			SessionToken:       "token",
			Expiration:         time.Now().Add(time.Hour),
		})).To(Succeed())

		Eventually(errCh).Should(Receive(BeNil()))
		first := <-resultCh
		Expect(first.AccessKeyID).To(Equal("AKIAEXAMPLE"))

		// The second call is served from cache: no further frame arrives on
		// the gateway's side.
		second, err := client.GetFleetRoleCredentials("arn:aws:iam::123:role/fleet-role", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(second.AccessKeyID).To(Equal("AKIAEXAMPLE"))
	})
})
