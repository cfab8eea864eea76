package tele

import (
	"context"
	"fmt"
	"time"

	"github.com/AlexTransit/teller/helpers"
	"github.com/AlexTransit/teller/log2"
	tele_config "github.com/AlexTransit/teller/tele/config"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
)

const mqttPublishTimeout = 5 * time.Second

type transportMqtt struct {
	enabled bool
	log     *log2.Log
	m       mqtt.Client
	mopt    *mqtt.ClientOptions

	topicPrefix    string
	topicConnect   string
	topicState     string
	topicTelemetry string
}

func (tm *transportMqtt) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error {
	if !teleConfig.Enabled {
		return nil
	}
	if teleConfig.MqttBroker == "" {
		return errors.NotValidf("tele mqtt_broker empty")
	}
	tm.enabled = true
	tm.log = log
	mqtt.ERROR = log
	mqtt.CRITICAL = log
	mqtt.WARN = log
	if teleConfig.MqttLogDebug {
		mqtt.DEBUG = log
	}
	mqttClientId := fmt.Sprintf("vm%d", teleConfig.VmId)
	credFun := func() (string, string) {
		return mqttClientId, teleConfig.MqttPassword
	}

	tm.topicPrefix = mqttClientId // coincidence
	tm.topicConnect = fmt.Sprintf("%s/c", tm.topicPrefix)
	tm.topicState = fmt.Sprintf("%s/w/1s", tm.topicPrefix)
	tm.topicTelemetry = fmt.Sprintf("%s/w/1t", tm.topicPrefix)
	keepAlive := helpers.IntSecondConfigDefault(teleConfig.KeepaliveSec, 60)
	pingTimeout := helpers.IntSecondConfigDefault(teleConfig.PingTimeoutSec, 30)
	retryInterval := helpers.IntSecondConfigDefault(teleConfig.KeepaliveSec/2, 30)
	tm.mopt = mqtt.NewClientOptions().
		AddBroker(teleConfig.MqttBroker).
		SetBinaryWill(tm.topicConnect, []byte{0x00}, 1, true).
		SetCleanSession(false).
		SetClientID(mqttClientId).
		SetCredentialsProvider(credFun).
		SetKeepAlive(keepAlive).
		SetPingTimeout(pingTimeout).
		SetOrderMatters(false).
		SetResumeSubs(true).
		SetStore(mqtt.NewFileStore(teleConfig.MqttStorePath())).
		SetConnectRetryInterval(retryInterval).
		SetOnConnectHandler(tm.onConnectHandler).
		SetConnectionLostHandler(tm.connectLostHandler).
		SetConnectRetry(true)
	tm.m = mqtt.NewClient(tm.mopt)
	// with ConnectRetry token completes only after first success, network errors are not fatal
	if token := tm.m.Connect(); token.Error() != nil {
		tm.log.Errorf("mqtt connect err=%v", token.Error())
	}
	return nil
}

func (tm *transportMqtt) CloseTele() {
	if !tm.enabled {
		return
	}
	tm.log.Infof("mqtt disconnect")
	tm.m.Publish(tm.topicConnect, 1, true, []byte{0x00}).WaitTimeout(mqttPublishTimeout)
	tm.m.Disconnect(uint(mqttPublishTimeout / time.Millisecond))
}

func (tm *transportMqtt) publish(topic string, payload []byte) bool {
	if !tm.enabled || !tm.m.IsConnectionOpen() {
		return false
	}
	token := tm.m.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		tm.log.Debugf("mqtt publish topic=%s timeout", topic)
		return false
	}
	if err := token.Error(); err != nil {
		tm.log.Debugf("mqtt publish topic=%s err=%v", topic, err)
		return false
	}
	return true
}

func (tm *transportMqtt) SendState(payload []byte) bool {
	tm.log.Debugf("transport sendstate payload=%x", payload)
	return tm.publish(tm.topicState, payload)
}

func (tm *transportMqtt) SendTelemetry(payload []byte) bool {
	return tm.publish(tm.topicTelemetry, payload)
}

func (tm *transportMqtt) connectLostHandler(c mqtt.Client, err error) {
	tm.log.Infof("mqtt disconnect err=%v", err)
}

func (tm *transportMqtt) onConnectHandler(c mqtt.Client) {
	tm.log.Infof("mqtt connect")
	c.Publish(tm.topicConnect, 1, true, []byte{0x01})
}
