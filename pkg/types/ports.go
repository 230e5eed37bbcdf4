package types

import "strconv"

// 固件约定的知名端口
const (
	// PortConsole 控制台输出（调试信息输出到地面端）
	PortConsole Port = 0x00
	// PortParam 参数读写
	PortParam Port = 0x02
	// PortSetpoint roll/pitch/yaw/thrust 设定值
	PortSetpoint Port = 0x03
	// PortMem 非易失存储访问
	PortMem Port = 0x04
	// PortLog 日志变量
	PortLog Port = 0x05
	// PortLocalization 定位数据
	PortLocalization Port = 0x06
	// PortSetpointGeneric 通用设定值
	PortSetpointGeneric Port = 0x07
	// PortPlatform 平台控制（调试、掉电等）
	PortPlatform Port = 0x0D
	// PortLink 链路层控制
	PortLink Port = 0x0F
)

// String 返回端口的字符串表示
func (p Port) String() string {
	switch p {
	case PortConsole:
		return "console"
	case PortParam:
		return "param"
	case PortSetpoint:
		return "setpoint"
	case PortMem:
		return "mem"
	case PortLog:
		return "log"
	case PortLocalization:
		return "localization"
	case PortSetpointGeneric:
		return "setpoint-generic"
	case PortPlatform:
		return "platform"
	case PortLink:
		return "link"
	default:
		return strconv.Itoa(int(p))
	}
}
