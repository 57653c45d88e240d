package model

import (
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/aws-sdk-go-v2/service/sts/types"
)

// PlayerSessionStatus is the lifecycle state of one player session.
type PlayerSessionStatus string

const (
	PlayerSessionStatusNotSet    PlayerSessionStatus = "NotSet"
	PlayerSessionStatusReserved  PlayerSessionStatus = "Reserved"
	PlayerSessionStatusActive    PlayerSessionStatus = "Active"
	PlayerSessionStatusCompleted PlayerSessionStatus = "Completed"
	PlayerSessionStatusTimedout  PlayerSessionStatus = "Timedout"
)

// PlayerSession describes one player's reservation in a game session.
type PlayerSession struct {
	PlayerID        string              `json:"PlayerId"`
	PlayerSessionID string              `json:"PlayerSessionId"`
	GameSessionID   string              `json:"GameSessionId"`
	FleetID         string              `json:"FleetId"`
	IPAddress       string              `json:"IpAddress"`
	PlayerData      string              `json:"PlayerData"`
	Port            uint16              `json:"Port"`
	CreationTime    int64               `json:"CreationTime"`
	TerminationTime int64               `json:"TerminationTime"`
	Status          PlayerSessionStatus `json:"Status"`
	DNSName         string              `json:"DnsName"`
}

// DescribePlayerSessionsResult is the response to DescribePlayerSessions.
type DescribePlayerSessionsResult struct {
	NextToken      string          `json:"NextToken"`
	PlayerSessions []PlayerSession `json:"PlayerSessions"`
}

// StartMatchBackfillResult is the response to StartMatchBackfill.
type StartMatchBackfillResult struct {
	TicketID string `json:"TicketId"`
}

// GetComputeCertificateResult is the response to GetComputeCertificate.
type GetComputeCertificateResult struct {
	CertificatePath string `json:"CertificatePath"`
	ComputeName     string `json:"ComputeName"`
}

// GetFleetRoleCredentialsResult is the response to GetFleetRoleCredentials.
// It is semantically an STS AssumeRole result relayed over the gateway wire
// (the gateway performs the actual AssumeRole call), so it converts
// naturally to the AWS SDK's sts.AssumeRoleOutput shape via
// ToAssumeRoleOutput. There is no conversion in the other direction.
type GetFleetRoleCredentialsResult struct {
	AssumedRoleUserArn string
	AssumedRoleID      string
	AccessKeyID        string
	SecretAccessKey    string
	SessionToken       string
	Expiration         time.Time
}

// wireGetFleetRoleCredentialsResult mirrors the flattened wire shape, where
// Expiration travels as milliseconds since the Unix epoch.
type wireGetFleetRoleCredentialsResult struct {
	AssumedRoleUserArn string `json:"AssumedRoleUserArn"`
	AssumedRoleID      string `json:"AssumedRoleId"`
	AccessKeyID        string `json:"AccessKeyId"`
	SecretAccessKey    string `json:"SecretAccessKey"`
	SessionToken       string `json:"SessionToken"`
	Expiration         int64  `json:"Expiration"`
}

// MarshalJSON encodes Expiration as milliseconds since the Unix epoch.
func (r GetFleetRoleCredentialsResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireGetFleetRoleCredentialsResult{
		AssumedRoleUserArn: r.AssumedRoleUserArn,
		AssumedRoleID:      r.AssumedRoleID,
		AccessKeyID:        r.AccessKeyID,
		SecretAccessKey:    r.SecretAccessKey,
		SessionToken:       r.SessionToken,
		Expiration:         r.Expiration.UnixMilli(),
	})
}

// UnmarshalJSON decodes Expiration from milliseconds since the Unix epoch.
func (r *GetFleetRoleCredentialsResult) UnmarshalJSON(data []byte) error {
	var wire wireGetFleetRoleCredentialsResult
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.AssumedRoleUserArn = wire.AssumedRoleUserArn
	r.AssumedRoleID = wire.AssumedRoleID
	r.AccessKeyID = wire.AccessKeyID
	r.SecretAccessKey = wire.SecretAccessKey
	r.SessionToken = wire.SessionToken
	r.Expiration = time.UnixMilli(wire.Expiration)
	return nil
}

// ToAssumeRoleOutput renders the result in the shape of an AWS SDK STS
// AssumeRole response, for callers that want to hand the credentials
// straight to another AWS SDK v2 client via a static credentials provider.
func (r GetFleetRoleCredentialsResult) ToAssumeRoleOutput() *sts.AssumeRoleOutput {
	return &sts.AssumeRoleOutput{
		AssumedRoleUser: &types.AssumedRoleUser{
			Arn:           aws.String(r.AssumedRoleUserArn),
			AssumedRoleId: aws.String(r.AssumedRoleID),
		},
		Credentials: &types.Credentials{
			AccessKeyId:     aws.String(r.AccessKeyID),
			SecretAccessKey: aws.String(r.SecretAccessKey),
			SessionToken:    aws.String(r.SessionToken),
			Expiration:      aws.Time(r.Expiration),
		},
	}
}
